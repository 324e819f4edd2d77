// Package validation checks request payloads with go-playground/validator
// and exposes a single error type that services reuse for argument checks.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/filmorate/internal/model"
)

// EarliestReleaseDate is the first public film screening. Films released
// earlier are rejected.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when input fails validation. It can carry several
// field errors from one request.
type Error struct {
	Fields []FieldError
}

// New builds an Error for a single field.
func New(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// Is reports whether err is (or wraps) a validation Error.
func Is(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(model.Date); ok {
				return d.Time
			}
			return nil
		}, model.Date{})
		mustRegister(v, "notblank", notBlank)
		mustRegister(v, "nowhitespace", noWhitespace)
		mustRegister(v, "releasedate", releaseDate)
		mustRegister(v, "pastorpresent", pastOrPresent)
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct validates s and returns nil or an *Error listing every failed field.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return f + " must not be blank"
	case "email":
		return f + " must be a valid email address"
	case "nowhitespace":
		return f + " must not contain whitespace"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "gt":
		return f + " must be positive"
	case "releasedate":
		return f + " must not be before " + EarliestReleaseDate.Format(model.DateLayout)
	case "pastorpresent":
		return f + " must not be in the future"
	}
	return fmt.Sprintf("%s failed %q validation", f, fe.Tag())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func noWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func releaseDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.Before(EarliestReleaseDate)
}

// pastOrPresent accepts any date that is today somewhere on Earth, so a
// client east of UTC can send its local date before UTC midnight.
func pastOrPresent(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.After(LatestToday().Time)
}

// LatestToday is the calendar date in the easternmost time zone (UTC+14).
func LatestToday() model.Date {
	now := time.Now().In(easternmost)
	return model.NewDate(now.Year(), now.Month(), now.Day())
}

var easternmost = time.FixedZone("UTC+14", 14*60*60)
