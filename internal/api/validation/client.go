package validation

import "strings"

var clientStatuses = map[string]bool{
	"active": true,
	"paused": true,
	"ended":  true,
}

// CreateClientRequest mirrors the fields needed for create client validation.
type CreateClientRequest struct {
	BusinessName string
	Email        string
	MonthlyFee   float64
}

// ValidateCreateClientRequest validates the fields of a create client request.
func ValidateCreateClientRequest(req CreateClientRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.BusinessName) == "" {
		errs = append(errs, FieldError{Field: "businessName", Message: "businessName is required"})
	} else if len(req.BusinessName) > 255 {
		errs = append(errs, FieldError{Field: "businessName", Message: "businessName must be at most 255 characters"})
	}

	if req.Email != "" && !strings.Contains(req.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	if req.MonthlyFee < 0 {
		errs = append(errs, FieldError{Field: "monthlyFee", Message: "monthlyFee must not be negative"})
	}

	return errs
}

// ValidateClientStatus validates a client status label.
func ValidateClientStatus(status string) []FieldError {
	if clientStatuses[status] {
		return nil
	}
	return []FieldError{{Field: "status", Message: "status must be \"active\", \"paused\" or \"ended\""}}
}
