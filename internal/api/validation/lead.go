package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/adverra/backoffice/internal/lead"
)

// SubmitLeadRequest mirrors the fields needed for lead submission validation.
type SubmitLeadRequest struct {
	ID           string
	BusinessName string
	Email        string
	Budget       float64
}

// ValidateSubmitLeadRequest validates the fields of a lead submission.
func ValidateSubmitLeadRequest(req SubmitLeadRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.BusinessName) == "" {
		errs = append(errs, FieldError{Field: "businessName", Message: "businessName is required"})
	} else if len(req.BusinessName) > 255 {
		errs = append(errs, FieldError{Field: "businessName", Message: "businessName must be at most 255 characters"})
	}

	if req.ID != "" {
		if _, err := uuid.Parse(req.ID); err != nil {
			errs = append(errs, FieldError{Field: "id", Message: "id must be a valid UUID"})
		}
	}

	if req.Email != "" && !strings.Contains(req.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	if req.Budget < 0 {
		errs = append(errs, FieldError{Field: "budget", Message: "budget must not be negative"})
	}

	return errs
}

// UpdateLeadStatusRequest mirrors the fields needed for status update validation.
type UpdateLeadStatusRequest struct {
	Status string
}

// ValidateUpdateLeadStatusRequest validates a lead status update.
func ValidateUpdateLeadStatusRequest(req UpdateLeadStatusRequest) []FieldError {
	var errs []FieldError

	if req.Status == "" {
		errs = append(errs, FieldError{Field: "status", Message: "status is required"})
	} else if !lead.ValidStatus(req.Status) {
		errs = append(errs, FieldError{Field: "status", Message: "status must be one of: " + strings.Join(lead.Statuses, ", ")})
	}

	return errs
}

// NoteRequest mirrors the fields needed for note create/update validation.
type NoteRequest struct {
	Content string
}

// ValidateNoteRequest validates a note body.
func ValidateNoteRequest(req NoteRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	} else if len(req.Content) > 10000 {
		errs = append(errs, FieldError{Field: "content", Message: "content must be at most 10000 characters"})
	}

	return errs
}
