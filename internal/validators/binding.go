package validators

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
)

var phonePattern = regexp.MustCompile(`^(\+?54)?[0-9]{10,13}$`)

func hhmm(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func date(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// phone accepts Argentine numbers with or without the +54 prefix; spaces and dashes are ignored.
func phone(fl validator.FieldLevel) bool {
	s := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return phonePattern.MatchString(s)
}

var once sync.Once

// Register installs the custom tags on gin's validator. Safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		// report json field names instead of Go struct names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		_ = v.RegisterValidation("hhmm", hhmm)
		_ = v.RegisterValidation("date", date)
		_ = v.RegisterValidation("phone", phone)
	})
}

// BindingError turns a ShouldBind error into a VALIDATION_ERROR with {field: rule} details.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return httperr.ValidationDetails(details)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return httperr.ValidationDetails(map[string]string{typeErr.Field: "type"})
	}

	return httperr.Validation("VALIDATION_ERROR", "malformed request body")
}
