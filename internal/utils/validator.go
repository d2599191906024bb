package utils

import (
	"os"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
}

var instance *Validator
var once sync.Once
var configuration *truemail.Configuration
var sanitizePolicy = bluemonday.StrictPolicy()

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "support@greenshop.vn",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: verifyEmail,
		}

		// Report offending fields under their wire names.
		instance.Validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		registerCustomValidators(instance.Validate)
	})

	return instance
}

// verifyEmail runs an MX lookup through truemail when enabled via
// EMAIL_VERIFICATION=mx; otherwise every address passes.
func verifyEmail(email string) bool {
	if os.Getenv("EMAIL_VERIFICATION") != "mx" {
		return true
	}
	return truemail.IsValid(email, configuration)
}

// SanitizeData strips markup from every settable string field of the given
// struct pointer before validation.
func (v *Validator) SanitizeData(obj interface{}) {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return
	}

	value = value.Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if field.Kind() == reflect.String && field.CanSet() {
			field.SetString(sanitizePolicy.Sanitize(field.String()))
		}
	}
}

func registerCustomValidators(v *validator.Validate) {
	if err := v.RegisterValidation("notblank", notBlankValidation); err != nil {
		return
	}

	if err := v.RegisterValidation("phone_validation", phoneValidation); err != nil {
		return
	}

	if err := v.RegisterValidation("password_validation", passwordValidation); err != nil {
		return
	}

	if err := v.RegisterValidation("website_validation", websiteValidation); err != nil {
		return
	}
}

// notBlankValidation rejects values that are empty after trimming whitespace.
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// phoneValidation requires at least 10 digits once spaces are stripped, and
// nothing but digits.
func phoneValidation(fl validator.FieldLevel) bool {
	phone := strings.ReplaceAll(fl.Field().String(), " ", "")
	if len(phone) < 10 {
		return false
	}

	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// passwordValidation requires at least one letter and one digit. The length
// floor is enforced by the min=8 tag on the request structs.
func passwordValidation(fl validator.FieldLevel) bool {
	var letter, digit bool

	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	return letter && digit
}

// websiteValidation accepts http(s) URLs whose host part contains a dot.
func websiteValidation(fl validator.FieldLevel) bool {
	website := fl.Field().String()

	var rest string
	switch {
	case strings.HasPrefix(website, "https://"):
		rest = strings.TrimPrefix(website, "https://")
	case strings.HasPrefix(website, "http://"):
		rest = strings.TrimPrefix(website, "http://")
	default:
		return false
	}

	return strings.Contains(rest, ".") && !strings.HasPrefix(rest, ".")
}
