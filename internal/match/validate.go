package match

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Periods is the fixed set of life-stage labels a search may name.
var Periods = []string{
	"초등학교 저학년 (1-3학년)",
	"초등학교 고학년 (4-6학년)",
	"중학교 1학년",
	"중학교 2학년",
	"중학교 3학년",
	"고등학교 1학년",
	"고등학교 2학년",
	"고등학교 3학년",
	"대학교 1학년",
	"대학교 2학년",
	"대학교 3학년",
	"대학교 4학년",
	"직장 초년차",
	"기타",
}

var (
	// ErrInvalidCriteria is returned for searches missing a year or a location.
	ErrInvalidCriteria = errors.New("invalid search criteria")
	// ErrInvalidCandidate is returned for directory records that cannot be scored.
	ErrInvalidCandidate = errors.New("invalid candidate")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return slices.Contains(Periods, fl.Field().String())
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Normalize trims the free-text fields of q and drops blank keywords.
func (q Criteria) Normalize() Criteria {
	q.Period = strings.TrimSpace(q.Period)
	q.Location = strings.Join(strings.Fields(q.Location), " ")
	kws := make([]string, 0, len(q.Keywords))
	for _, kw := range q.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			kws = append(kws, kw)
		}
	}
	q.Keywords = kws
	return q
}

// ValidateCriteria checks that q is complete enough to score.
func ValidateCriteria(q Criteria) error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCriteria, formatValidationError(err))
	}
	return nil
}

// ValidateCandidate checks that c carries every field the scorer reads.
func ValidateCandidate(c Candidate) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w %d: %s", ErrInvalidCandidate, c.ID, formatValidationError(err))
	}
	return nil
}

// ParseKeywords splits a comma or whitespace separated keyword string.
func ParseKeywords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "period":
		return fmt.Sprintf("%s %q is not a known period", field, e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
