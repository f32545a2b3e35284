package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lazypower/bangapda/internal/store"
)

const minPasswordLen = 6

var (
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrInvalidProfile      = errors.New("invalid profile")
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Registration is the sign-up form.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Nickname  string `json:"nickname" validate:"required"`
	Name      string `json:"name"`
	BirthYear int    `json:"birth_year" validate:"omitempty,gte=1900,lte=2100"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female"`
}

func (r Registration) normalize() Registration {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Nickname = strings.TrimSpace(r.Nickname)
	r.Name = strings.TrimSpace(r.Name)
	return r
}

func validateRegistration(r Registration) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, registrationFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRegistration, strings.Join(msgs, "; "))
}

func registrationFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "email is not a valid address"
	case "min":
		return fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	case "gte", "lte":
		return field + " is out of range"
	case "oneof":
		return field + " must be one of " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// normalizeProfile trims free text and drops blank list entries.
func normalizeProfile(p store.Profile) store.Profile {
	p.CurrentLocation = strings.Join(strings.Fields(p.CurrentLocation), " ")
	p.RememberedLocation = strings.Join(strings.Fields(p.RememberedLocation), " ")
	p.OldNickname = strings.TrimSpace(p.OldNickname)
	p.SchoolOrWork = strings.TrimSpace(p.SchoolOrWork)
	p.RememberedYears.TimeDescription = strings.TrimSpace(p.RememberedYears.TimeDescription)
	p.MemorablePlaces = compact(p.MemorablePlaces)
	p.ActivityKeywords = compact(p.ActivityKeywords)
	return p
}

func validateProfile(p store.Profile) error {
	years := p.RememberedYears
	if err := validate.Var(years.StartYear, "gte=1900,lte=2100"); err != nil {
		return fmt.Errorf("%w: remembered start year is required", ErrInvalidProfile)
	}
	if err := validate.Var(years.EndYear, fmt.Sprintf("omitempty,gte=%d,lte=2100", years.StartYear)); err != nil {
		return fmt.Errorf("%w: remembered end year must not precede the start year", ErrInvalidProfile)
	}
	if err := validate.Var(p.RememberedLocation, "required"); err != nil {
		return fmt.Errorf("%w: remembered location is required", ErrInvalidProfile)
	}
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
