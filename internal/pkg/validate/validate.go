// Package validate checks request structs against `validate` tags and
// reports failures as apperr validation errors keyed by JSON field name.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	v10 "github.com/go-playground/validator/v10"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Validator wraps a configured go-playground validator.
type Validator struct {
	valid *v10.Validate
}

// New registers the site rules: emailshape, lang and slug.
func New() *Validator {
	v := v10.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("emailshape", func(fl v10.FieldLevel) bool {
		return EmailShape(fl.Field().String())
	})
	_ = v.RegisterValidation("lang", func(fl v10.FieldLevel) bool {
		_, ok := i18n.ParseLang(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("slug", func(fl v10.FieldLevel) bool {
		return Slug(fl.Field().String())
	})
	return &Validator{valid: v}
}

// EmailShape reports whether s looks like local@domain.tld.
func EmailShape(s string) bool { return emailPattern.MatchString(s) }

// Slug reports whether s is lowercase words joined by single hyphens.
func Slug(s string) bool { return slugPattern.MatchString(s) }

// Struct validates structPtr. Missing required fields win over other rule
// failures so callers can name every absent field at once.
func (v *Validator) Struct(structPtr any) error {
	err := v.valid.Struct(structPtr)
	if err == nil {
		return nil
	}
	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return apperr.Validation(err.Error())
	}

	var missing, invalid, rules []string
	for _, fe := range errs {
		field := fe.Namespace()
		if ns := strings.SplitN(field, ".", 2); len(ns) == 2 {
			field = ns[1]
		}
		if fe.Tag() == "required" {
			missing = append(missing, field)
			continue
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		invalid = append(invalid, field)
		rules = append(rules, field+" fails "+rule)
	}
	if len(missing) > 0 {
		return apperr.MissingFields(missing...)
	}
	return apperr.Validation("invalid fields: "+strings.Join(rules, "; "), invalid...)
}
