package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/internal/domain/scoring"
)

// requestValidator wraps the validator with the domain's enum rules.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("sector", parses(model.ParseSector))
	_ = v.RegisterValidation("stage", parses(model.ParseStage))
	_ = v.RegisterValidation("vc_tier", parses(model.ParseVCTier))
	_ = v.RegisterValidation("outcome", parses(model.ParseOutcome))
	_ = v.RegisterValidation("terminal_outcome", func(fl validator.FieldLevel) bool {
		o, err := model.ParseOutcome(fl.Field().String())
		return err == nil && o.IsTerminal()
	})
	_ = v.RegisterValidation("mode", parses(scoring.ParseMode))

	return &requestValidator{validate: v}
}

func parses[T any](parse func(string) (T, error)) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := parse(fl.Field().String())
		return err == nil
	}
}

// Struct validates req and flattens the failures into one ErrBadRequest.
func (rv *requestValidator) Struct(req any) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte", "lte", "gt", "lt", "max", "min":
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	case "sector", "stage", "vc_tier", "outcome", "mode":
		return fmt.Sprintf("%s: unknown %s %q", field, fe.Tag(), fe.Value())
	case "terminal_outcome":
		return fmt.Sprintf("%s must be one of unicorn, success, failed", field)
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
