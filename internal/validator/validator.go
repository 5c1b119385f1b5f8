package validator

import (
	"context"
	"errors"
	"fmt"
	v10validator "github.com/go-playground/validator/v10"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	"reflect"
	"regexp"
	"strings"
)

type Validator struct {
	engine Engine
}

type Engine interface {
	StructCtx(ctx context.Context, s any) error
	VarCtx(ctx context.Context, field any, tag string) error
}

var ghanaPhone = regexp.MustCompile(`^(?:\+233|0)[2-9][0-9]{8}$`)

var labels = map[string]string{
	"name":             "Full name",
	"phoneNumber":      "Phone number",
	"residenceType":    "Residence type",
	"orderDescription": "Order description",
	"orderAmount":      "Order amount",
	"block":            "Block",
	"room":             "Room number",
	"hall":             "Hall name",
	"otherHall":        "Hall name",
	"hostel":           "Hostel name",
	"otherHostel":      "Hostel name",
	"orderId":          "Order id",
	"email":            "Email",
	"status":           "Status",
	"username":         "Username",
	"password":         "Password",
}

func New(e Engine) *Validator {
	return &Validator{engine: e}
}

// NewEngine создает движок валидации: поля в ошибках называются по json-тегам,
// зарегистрированы правило ghphone и проверка entity.Money как числа.
func NewEngine() (*v10validator.Validate, error) {
	engine := v10validator.New()
	engine.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}

		return name
	})
	engine.RegisterCustomTypeFunc(func(v reflect.Value) any {
		return v.Interface().(entity.Money).InexactFloat64()
	}, entity.Money{})

	if err := engine.RegisterValidation("ghphone", GhanaPhone); err != nil {
		return nil, err
	}

	return engine, nil
}

func (v *Validator) Struct(ctx context.Context, s any) error {
	return v.engine.StructCtx(ctx, s)
}

func (v *Validator) Var(ctx context.Context, field any, tag string) error {
	return v.engine.VarCtx(ctx, field, tag)
}

// GhanaPhone проверяет номер мобильного телефона Ганы: 0 или +233, затем
// девять цифр, первая из которых от 2 до 9.
func GhanaPhone(fl v10validator.FieldLevel) bool {
	val := fl.Field()
	if val.Kind() != reflect.String {
		return false
	}

	return ghanaPhone.MatchString(val.String())
}

// Messages собирает сообщения об ошибках по полям из всех переданных ошибок
// валидации. Ошибки, не относящиеся к валидации полей, попадают под ключ "body".
func Messages(errs ...error) map[string]string {
	fields := make(map[string]string)
	for _, err := range errs {
		if err == nil {
			continue
		}

		var ve v10validator.ValidationErrors
		if !errors.As(err, &ve) {
			fields["body"] = err.Error()

			continue
		}

		for _, fe := range ve {
			if _, ok := fields[fe.Field()]; !ok {
				fields[fe.Field()] = message(fe)
			}
		}
	}

	return fields
}

func message(fe v10validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required", "required_if":
		return label + " is required"
	case "ghphone":
		return "Please enter a valid Ghana phone number"
	case "gt":
		return "Please enter a valid amount"
	case "oneof":
		return fmt.Sprintf("Please select a valid %s", strings.ToLower(label))
	case "email":
		return "Please enter a valid email address"
	case "uuid":
		return label + " must be a valid UUID"
	}

	return fmt.Sprintf("%s is invalid", label)
}
