package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	validate.RegisterValidation("student_id", validateStudentID)
}

type Validator struct{}

func (v *Validator) ValidateStruct(payload interface{}) *[]error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs := []error{err}
		return &errs
	}
	errs := make([]error, len(validationErrs))
	for i, fieldErr := range validationErrs {
		errs[i] = fmt.Errorf("%s failed validation on the %s rule", fieldErr.Field(), fieldErr.Tag())
	}
	return &errs
}

func (v *Validator) ValidateValue(value any, rules string) error {
	return validate.Var(value, rules)
}

var ValidatorInstance = Validator{}
