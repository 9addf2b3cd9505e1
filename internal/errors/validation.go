package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationBuilder collects per-field problems and reports them as a single
// InvalidArgument error.
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("class", input.Class, vb)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
type ValidationBuilder struct {
	fields map[string][]string
}

// NewValidationBuilder returns an empty builder.
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{fields: make(map[string][]string)}
}

// Field records message against field.
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.fields[field] = append(vb.fields[field], message)
	return vb
}

// Fieldf records a formatted message against field.
func (vb *ValidationBuilder) Fieldf(field, format string, args ...any) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

// RequiredField records a missing field.
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// InvalidField records a field with a bad value.
func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", reason)
}

// Build returns nil when nothing was recorded. Field names are listed in
// sorted order so the message is stable.
func (vb *ValidationBuilder) Build() error {
	if len(vb.fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(vb.fields))
	for name := range vb.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	meta := make(map[string]any, len(names))
	for i, name := range names {
		msgs := vb.fields[name]
		parts[i] = name + ": " + strings.Join(msgs, ", ")
		list := make([]any, len(msgs))
		for j, m := range msgs {
			list[j] = m
		}
		meta[name] = list
	}
	return InvalidArgument("validation failed: "+strings.Join(parts, "; ")).
		WithMeta("validation_errors", meta)
}

// ValidateRequired records field when value is blank.
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateRange records field when value lies outside [lo, hi].
func ValidateRange(field string, value, lo, hi int, vb *ValidationBuilder) {
	if value < lo || value > hi {
		vb.Fieldf(field, "must be between %d and %d", lo, hi)
	}
}

// ValidateEnum records field when value is not one of allowed.
func ValidateEnum(field, value string, allowed []string, vb *ValidationBuilder) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	vb.Fieldf(field, "must be one of: %s", strings.Join(allowed, ", "))
}
