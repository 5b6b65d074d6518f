package validation

import (
	"strings"
	"time"
)

// UpsertMetricsRequest mirrors the fields needed for daily metrics validation.
type UpsertMetricsRequest struct {
	Day       string
	Platform  string
	Views     int64
	Likes     int64
	Comments  int64
	Shares    int64
	Followers int64
}

// ValidateUpsertMetricsRequest validates the fields of a daily metrics upsert.
func ValidateUpsertMetricsRequest(req UpsertMetricsRequest) []FieldError {
	var errs []FieldError

	if req.Day == "" {
		errs = append(errs, FieldError{Field: "day", Message: "day is required"})
	} else if _, err := time.Parse("2006-01-02", req.Day); err != nil {
		errs = append(errs, FieldError{Field: "day", Message: "day must be in YYYY-MM-DD format"})
	}

	if strings.TrimSpace(req.Platform) == "" {
		errs = append(errs, FieldError{Field: "platform", Message: "platform is required"})
	}

	for _, m := range []struct {
		field string
		value int64
	}{
		{"views", req.Views},
		{"likes", req.Likes},
		{"comments", req.Comments},
		{"shares", req.Shares},
		{"followers", req.Followers},
	} {
		if m.value < 0 {
			errs = append(errs, FieldError{Field: m.field, Message: m.field + " must not be negative"})
		}
	}

	return errs
}

// ParseDateRange parses optional from/to query values into a date range,
// defaulting to the last 30 days ending today.
func ParseDateRange(fromStr, toStr string) (from, to time.Time, errs []FieldError) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from = now.AddDate(0, 0, -30)
	to = now

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			errs = append(errs, FieldError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		} else {
			from = parsed
		}
	}

	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			errs = append(errs, FieldError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		} else {
			to = parsed
		}
	}

	if len(errs) == 0 && to.Before(from) {
		errs = append(errs, FieldError{Field: "to", Message: "to must not be before from"})
	}

	return from, to, errs
}
