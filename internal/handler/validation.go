package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hearsay/internal/domain"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator and
// makes validation errors report JSON field names. Safe to call repeatedly.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}

	var err error
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(fieldName)
		err = v.RegisterValidation("hhmm", validateHHMM)
	})
	return err
}

// validateHHMM accepts "" or a 24-hour HH:MM time.
func validateHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || domain.IsReminderTime(s)
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func describeBindingError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+": "+describeFieldError(fe))
		}
		return strings.Join(msgs, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s: must be %s", typeErr.Field, typeErr.Type.String())
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "malformed JSON body"
	}
	return err.Error()
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "hhmm":
		return "must be a time in HH:MM format"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
