package validation

import "strings"

// CreateScriptRequest mirrors the fields needed for create script validation.
type CreateScriptRequest struct {
	Title string
}

// ValidateCreateScriptRequest validates the fields of a create script request.
func ValidateCreateScriptRequest(req CreateScriptRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(req.Title) > 255 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}

	return errs
}

// CreatePublishRequest mirrors the fields needed for create publish validation.
type CreatePublishRequest struct {
	Platform string
	URL      string
}

// ValidateCreatePublishRequest validates the fields of a create publish request.
func ValidateCreatePublishRequest(req CreatePublishRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Platform) == "" {
		errs = append(errs, FieldError{Field: "platform", Message: "platform is required"})
	}

	if len(req.URL) > 2048 {
		errs = append(errs, FieldError{Field: "url", Message: "url must be at most 2048 characters"})
	}

	return errs
}
