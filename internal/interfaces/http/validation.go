package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
)

// validate valida los tags `validate` de los DTO; los errores usan el nombre JSON del campo.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateBody devuelve un error de validación INVALID_REQUEST con el primer campo que falla.
func validateBody(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.Validation(domain.CodeInvalidRequest, "cuerpo inválido")
	}
	fe := fieldErrs[0]
	if fe.Tag() == "required" {
		return domain.Validation(domain.CodeInvalidRequest, "%s es requerido", fe.Field())
	}
	return domain.Validation(domain.CodeInvalidRequest, "%s inválido", fe.Field())
}
