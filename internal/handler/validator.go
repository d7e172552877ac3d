package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FormValidator adapts go-playground/validator to echo.Validator.
type FormValidator struct {
	v *validator.Validate
}

func NewFormValidator() *FormValidator {
	return &FormValidator{v: validator.New()}
}

func (fv *FormValidator) Validate(i interface{}) error {
	return fv.v.Struct(i)
}

// fieldMessages maps "Struct.Field" to the inline error shown for a failed rule.
var fieldMessages = map[string]string{
	"RegisterForm.Username": "Username must be between 3 and 150 characters.",
	"RegisterForm.Password": "Password must be between 6 and 72 characters.",
	"LoginForm.Username":    "Username and password are required.",
	"LoginForm.Password":    "Username and password are required.",
	"ContactForm.Name":      "Name, email and message are all required.",
	"ContactForm.Email":     "Name, email and message are all required.",
	"ContactForm.Body":      "Name, email and message are all required.",
}

// inlineError turns a validation error into the message rendered above the
// form.  Only the first failing field is reported.
func inlineError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := fieldMessages[verrs[0].StructNamespace()]; ok {
			return msg
		}
	}
	return "Please check the form and try again."
}
