package validator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/strcase"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// customRules are the string formats this service validates beyond the
// built-in tags.
var customRules = []struct {
	tag string
	msg string
	re  *regexp.Regexp
}{
	// A full SHA-1 git object name.
	{tag: "commit", msg: "{0} must be exactly 40 hex characters", re: regexp.MustCompile(`^[0-9a-fA-F]{40}$`)},
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps a field name to its message.
//
// Field names are the json tag names, or the snake_case Go field name when a
// field has no json tag.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, _ := json.Marshal(map[string]string(vs))
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and the custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	for _, rule := range customRules {
		if err := registerRule(validate, enTrans, rule.tag, rule.msg, rule.re); err != nil {
			return nil, err
		}
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return f.Name
	case "":
		return strcase.ToLowerSnake(f.Name)
	default:
		return name
	}
}

func registerRule(validate *validator.Validate, enTrans ut.Translator, tag, msg string, re *regexp.Regexp) error {
	err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		v, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(v)
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation(tag, enTrans,
		func(t ut.Translator) error {
			return t.Add(tag, msg, false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("validator translation failed", "tag", fe.Tag(), "error", err)
				return fe.Error()
			}
			return s
		},
	)
}
