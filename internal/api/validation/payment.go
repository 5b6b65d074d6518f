package validation

var paymentStatuses = map[string]bool{
	"pending": true,
	"paid":    true,
	"overdue": true,
}

// CreatePaymentRequest mirrors the fields needed for create payment validation.
type CreatePaymentRequest struct {
	Amount float64
	Status string
}

// ValidateCreatePaymentRequest validates the fields of a create payment request.
func ValidateCreatePaymentRequest(req CreatePaymentRequest) []FieldError {
	var errs []FieldError

	if req.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be positive"})
	}

	if req.Status != "" && !paymentStatuses[req.Status] {
		errs = append(errs, FieldError{Field: "status", Message: "status must be \"pending\", \"paid\" or \"overdue\""})
	}

	return errs
}
