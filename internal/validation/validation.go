// Package validation checks field formats for catalog and membership records.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MinPublicationYear is the earliest accepted publication year.
const MinPublicationYear = 1450

// ErrValidation matches every *ValidationError and Errors value.
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Errors is a list of field failures reported together.
type Errors []*ValidationError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Is(target error) bool {
	return target == ErrValidation
}

// Collect gathers the non-nil results of individual checks.
// It returns nil when every check passed.
func Collect(checks ...error) error {
	var errs Errors
	for _, err := range checks {
		if err == nil {
			continue
		}
		var fe *ValidationError
		if errors.As(err, &fe) {
			errs = append(errs, fe)
		} else {
			errs = append(errs, &ValidationError{Field: "", Message: err.Error()})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Details flattens err into field failures. It returns nil for non-validation errors.
func Details(err error) []*ValidationError {
	var list Errors
	if errors.As(err, &list) {
		return list
	}
	var fe *ValidationError
	if errors.As(err, &fe) {
		return []*ValidationError{fe}
	}
	return nil
}

func fieldError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fieldError(field, "must not be blank")
	}
	return nil
}

func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fieldError(field, "must be at most %d characters", max)
	}
	return nil
}

// ISBN accepts ISBN-10 and ISBN-13 codes, with or without hyphens, and verifies the check digit.
func ISBN(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fieldError(field, "must not be blank")
	}
	if err := validate.Var(NormalizeISBN(value), "isbn"); err != nil {
		return fieldError(field, "must be a valid ISBN-10 or ISBN-13")
	}
	return nil
}

// ISSN accepts NNNN-NNNC codes (hyphen optional) with a valid check character.
func ISSN(field, value string) error {
	code := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(value)))
	if len(code) != 8 {
		return fieldError(field, "must be a valid ISSN")
	}

	sum := 0
	for i := 0; i < 7; i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return fieldError(field, "must be a valid ISSN")
		}
		sum += int(c-'0') * (8 - i)
	}

	check := (11 - sum%11) % 11
	var want byte
	if check == 10 {
		want = 'X'
	} else {
		want = byte('0' + check)
	}
	if code[7] != want {
		return fieldError(field, "must be a valid ISSN")
	}
	return nil
}

// PublicationYear accepts years from MinPublicationYear up to next year.
func PublicationYear(field string, year int, now time.Time) error {
	maxYear := now.Year() + 1
	if year < MinPublicationYear || year > maxYear {
		return fieldError(field, "must be between %d and %d", MinPublicationYear, maxYear)
	}
	return nil
}

func Email(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fieldError(field, "must not be blank")
	}
	if err := validate.Var(strings.TrimSpace(value), "email"); err != nil {
		return fieldError(field, "must be a valid email address")
	}
	return nil
}

// NormalizeISBN strips hyphens and spaces and upper-cases a trailing X.
func NormalizeISBN(value string) string {
	r := strings.NewReplacer("-", "", " ", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(value)))
}

// NormalizeISSN renders an ISSN as NNNN-NNNC. Values that are not eight
// characters long are returned trimmed and unchanged.
func NormalizeISSN(value string) string {
	code := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(value)))
	if len(code) != 8 {
		return strings.TrimSpace(value)
	}
	return code[:4] + "-" + code[4:]
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeIdentifier normalises a catalog code: eight-character codes are
// treated as ISSNs, everything else as ISBNs.
func NormalizeIdentifier(value string) string {
	code := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(value))
	if len(code) == 8 {
		return NormalizeISSN(value)
	}
	return NormalizeISBN(value)
}
