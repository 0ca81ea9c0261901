package usecases

import (
	"errors"
	"html"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	stripTags    = bluemonday.StrictPolicy()
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
	// Closing tags, comments, and tags that are bare or carry name=value
	// attributes. "a<b and c>d" or "size<M" stay plain text.
	markupPattern = regexp.MustCompile(`</[a-zA-Z][a-zA-Z0-9-]*\s*>|<!--|<[a-zA-Z][a-zA-Z0-9-]*(\s+[a-zA-Z_:][a-zA-Z0-9_:.-]*\s*=\s*("[^"]*"|'[^']*'|[^\s"'<>]+))*\s*/?>`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockPattern.MatchString(fl.Field().String())
		})
		// Blank clears an optional bound.
		_ = validate.RegisterValidation("clock_or_blank", func(fl validator.FieldLevel) bool {
			v := strings.TrimSpace(fl.Field().String())
			return v == "" || clockPattern.MatchString(v)
		})
	})
	return validate
}

// validateStruct runs struct tags and turns the first failure into an
// apperrors validation error naming the JSON field.
func validateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation("invalid input")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.Validation("%s is required", fe.Field())
	case "email":
		return apperrors.Validation("%s must be a valid email", fe.Field())
	case "url":
		return apperrors.Validation("%s must be a valid URL", fe.Field())
	case "clock", "clock_or_blank":
		return apperrors.Validation("%s must be HH:MM", fe.Field())
	case "oneof":
		return apperrors.Validation("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "max", "gte", "lte":
		return apperrors.Validation("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
	}
	return apperrors.Validation("%s is invalid", fe.Field())
}

// sanitize trims free text and strips it when it carries HTML markup.
// Text without markup is kept as typed, "<" and ">" included.
func sanitize(s string) string {
	if !markupPattern.MatchString(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(s)))
}

func sanitizePtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := sanitize(*p)
	return &s
}

// normalizeClock stores "HH:MM" as "HH:MM:00"; seconds are dropped.
func normalizeClock(s string) (string, error) {
	if !clockPattern.MatchString(s) {
		return "", apperrors.Validation("invalid time %q, expected HH:MM", s)
	}
	return s[:5] + ":00", nil
}
