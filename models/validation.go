package models

import (
	"fmt"
	"strings"
)

// FieldError explains why one field of one row was rejected. Row is -1 for
// form-level problems.
type FieldError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d %s: %s", e.Row+1, e.Field, e.Reason)
}

// ValidationErrors is returned by client-side validation; no request is sent
// when it is non-empty.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasField reports whether any failure names field on row.
func (v ValidationErrors) HasField(row int, field string) bool {
	for _, e := range v {
		if e.Row == row && e.Field == field {
			return true
		}
	}
	return false
}
