package validation

import (
	"sort"
	"strings"
	"unicode"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Detail flattens the violations into a single human-readable message,
// fields in stable order.
func (v Violations) Detail() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "is required"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must be a positive integer"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must be positive"
	}
}

// Password enforces the account password policy: at least 8 characters,
// one uppercase letter and one digit.
func Password(field, value string, v Violations) {
	switch {
	case len(value) < 8:
		v[field] = "must be at least 8 characters"
	case !strings.ContainsFunc(value, unicode.IsUpper):
		v[field] = "must contain an uppercase letter"
	case !strings.ContainsFunc(value, unicode.IsDigit):
		v[field] = "must contain a digit"
	}
}
