package validation

import (
	"regexp"
	"strings"
)

// Violations maps a field name to the constraint it violated.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// optional leading "+", then 9 to 15 digits
	phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if value != "" && !emailPattern.MatchString(value) {
		v[field] = "invalid_email"
	}
}

func Phone(field, value string, v Violations) {
	if value != "" && !phonePattern.MatchString(value) {
		v[field] = "invalid_phone"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RequiredID(field string, val uint, v Violations) {
	if val == 0 {
		v[field] = "required"
	}
}

func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}
