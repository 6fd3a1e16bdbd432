package validator

import (
	"unicode"

	"campuspass.io/application/constants"
	"github.com/go-playground/validator/v10"
)

func validateStudentID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len(id) != constants.STUDENT_ID_LENGTH {
		return false
	}
	for _, char := range id {
		if !unicode.IsDigit(char) {
			return false
		}
	}
	return true
}
