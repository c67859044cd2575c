package middleware

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var ticketNumberPattern = regexp.MustCompile(`^TKT-\d{8}-\d{3}$`)

// SetupValidator configures the gin validator with custom tags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// ticket_number validates the TKT-YYYYMMDD-NNN format
	_ = v.RegisterValidation("ticket_number", func(fl validator.FieldLevel) bool {
		return ticketNumberPattern.MatchString(fl.Field().String())
	})
}
