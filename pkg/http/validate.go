package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(fieldName)
}

// fieldName reports fields by their wire name so messages match what the client sent.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query", "header"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// ReadAndValidateRequest binds path, query, header and body values, applies defaults and validates.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	// Bind request
	if err := c.Bind(req); err != nil {
		return validatorDefaultRules(err)
	}
	if err := (&echo.DefaultBinder{}).BindHeaders(c, req); err != nil {
		return validatorDefaultRules(err)
	}

	// Set default values
	if err := defaults.Set(req); err != nil {
		return validatorDefaultRules(err)
	}

	// Validate struct
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validatorDefaultRules(err)
	}

	return nil
}

func validatorDefaultRules(err error) interface{} {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, fromFieldError(fe))
		}
		return out
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return single("ERR_NUMERIC", ute.Field, ute.Field+" must be a number")
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		return single("ERR_MALFORMED_JSON", "", fmt.Sprintf("malformed JSON body at offset %d", se.Offset))
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return single("ERR_UNKNOWN", "", fmt.Sprint(he.Message))
	}
	return single("ERR_UNKNOWN", "", err.Error())
}

func single(code, field, message string) []ValidationError {
	return []ValidationError{{Code: code, Field: field, Message: message}}
}

// ruleMessages maps a validator tag to a message template taking the field and the tag parameter.
var ruleMessages = map[string]string{
	"required":         "%s is required",
	"required_without": "%s is required",
	"gt":               "%s must be greater than %s",
	"gte":              "%s must be greater than or equal to %s",
	"lt":               "%s must be less than %s",
	"lte":              "%s must be less than or equal to %s",
	"min":              "%s must be at least %s",
	"max":              "%s must be at most %s",
	"oneof":            "%s must be one of: %s",
}

// ruleParams names the parameter each bounded tag carries in the details.
var ruleParams = map[string]string{
	"min": "min", "gte": "min",
	"max": "max", "lte": "max",
	"gt": "value", "lt": "value",
	"oneof": "options",
}

func fromFieldError(fe validator.FieldError) ValidationError {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	if tag == "oneof" {
		param = strings.ReplaceAll(param, " ", ", ")
	}

	msg := fmt.Sprintf("%s failed validation: %s", field, tag)
	if tmpl, ok := ruleMessages[tag]; ok {
		if strings.Count(tmpl, "%s") == 1 {
			msg = fmt.Sprintf(tmpl, field)
		} else {
			msg = fmt.Sprintf(tmpl, field, param)
		}
	}
	if (tag == "min" || tag == "max") && fe.Kind() == reflect.String {
		msg += " characters"
	}

	ve := ValidationError{Code: "ERR_" + strings.ToUpper(tag), Field: field, Message: msg}
	if key, ok := ruleParams[tag]; ok {
		var v interface{} = fe.Param()
		if tag == "oneof" {
			v = strings.Fields(fe.Param())
		}
		ve.Params = map[string]interface{}{key: v}
	}
	return ve
}
