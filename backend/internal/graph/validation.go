package graph

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "trustocracy/backend/pkg/errors"
)

var validate = validator.New()

// Every identifier and string argument is checked here before a query is
// composed; nothing malformed reaches the database.

func validateID(field string, id int64) error {
	return checkVar(field, id, "gt=0")
}

func validateIDs(field string, ids []int64) error {
	return checkVar(field, ids, "dive,gt=0")
}

func validateEmail(field, email string) error {
	return checkVar(field, email, "required,email,max=254")
}

func validateEmails(field string, emails []string) error {
	return checkVar(field, emails, "dive,required,email,max=254")
}

func validateName(field, name string) error {
	return checkVar(field, name, "required,max=200")
}

// validateExternalID accepts the decimal form of a provider id.
func validateExternalID(field, id string) error {
	return checkVar(field, id, "required,numeric,max=64")
}

// validateProperties accepts only values Neo4j can store on a node:
// null, a primitive, or a list whose elements share one primitive kind.
func validateProperties(field string, props map[string]any) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "" {
			return apperrors.NewInvalidInput(field, "property names must not be empty")
		}
		v := props[k]
		if v == nil || primitiveKind(reflect.ValueOf(v)) != "" {
			continue
		}
		if reason := checkList(reflect.ValueOf(v)); reason != "" {
			return apperrors.NewInvalidInput(field, fmt.Sprintf("property %q %s", k, reason))
		}
	}
	return nil
}

func checkList(v reflect.Value) string {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return "must be a string, number, boolean or list of one of those"
	}
	kind := ""
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Interface {
			if elem.IsNil() {
				return "must not contain null"
			}
			elem = elem.Elem()
		}
		k := primitiveKind(elem)
		if k == "" {
			return "must only contain strings, numbers or booleans"
		}
		if kind != "" && k != kind {
			return "must not mix element types"
		}
		kind = k
	}
	return ""
}

func primitiveKind(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	default:
		return ""
	}
}

func checkVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return apperrors.NewInvalidInput(field, formatValidationError(err))
	}
	return nil
}

// formatValidationError turns validator output into a short reason
func formatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	reasons := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		reasons = append(reasons, formatFieldError(e))
	}
	return strings.Join(reasons, "; ")
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", e.Param())
	case "email":
		return fmt.Sprintf("%q is not a valid email", e.Value())
	case "numeric":
		return "must be numeric"
	default:
		return "is invalid"
	}
}
