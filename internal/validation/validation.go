package validation

import (
	"encoding/json"
	"errors"
	"mime"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Character set and length accepted for transcription job names.
var jobNamePattern = regexp.MustCompile(`^[0-9A-Za-z._-]{1,200}$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields under their JSON name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("mediatype", func(fl validator.FieldLevel) bool {
		_, _, err := mime.ParseMediaType(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("jobname", func(fl validator.FieldLevel) bool {
		return jobNamePattern.MatchString(fl.Field().String())
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateJobName checks name against the transcription job naming rules.
func ValidateJobName(name string) error {
	return validate.Var(name, "required,jobname")
}

// ErrorsToJson maps each failing field to the tag it failed on.
func ErrorsToJson(validationErrs error) (string, error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(validationErrs, &fieldErrs) {
		return "", validationErrs
	}

	errsMap := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
