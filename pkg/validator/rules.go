package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailPattern is loose and unanchored: any substring of the form x@y.z matches,
// so "a b@x.com" passes.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Required fails when value is empty or whitespace only.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// ValidEmail checks value against a basic address pattern.
// Empty values pass; combine with Required.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return value == "" || emailPattern.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// MaxLen limits the length of value in characters.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)},
	}
}

// MaxBytes limits the length of value in bytes.
func MaxBytes(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d bytes", max)},
	}
}
