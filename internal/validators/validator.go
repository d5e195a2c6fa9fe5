package validators

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator confere os argumentos das ferramentas pelas struct tags.
type Validator struct {
	validate *validator.Validate
}

// New monta o Validator. Com checkEmailDomain a tag "email_domain" resolve o
// domínio do endereço; sem ele a tag sempre passa.
func New(checkEmailDomain bool) *Validator {
	if !checkEmailDomain {
		return newValidator(nil)
	}
	return newValidator(NewMailDomainChecker())
}

func newValidator(mail *MailDomainChecker) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidationCtx("email_domain", func(ctx context.Context, fl validator.FieldLevel) bool {
		if mail == nil {
			return true
		}
		return mail.Check(ctx, fl.Field().String())
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(ctx context.Context, i any) error {
	return v.validate.StructCtx(ctx, i)
}

// FormatErrors mapeia cada campo inválido para uma mensagem curta.
func FormatErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}

	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = field + " is required"
		case "email":
			out[field] = field + " must be a valid email address"
		case "email_domain":
			out[field] = field + " domain does not accept email"
		case "datetime":
			out[field] = field + " must match " + e.Param()
		case "max":
			out[field] = field + " must be at most " + e.Param() + " characters"
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}
