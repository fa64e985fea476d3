package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation describes one field that failed validation.
type Violation struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is returned when a payload does not satisfy its shape.
// It always carries every violation found, never a partial list.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(v.Loc, "."), v.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// BodyError reports a request body that could not be decoded. A value of the wrong
// type is reported against its field; anything else against the body as a whole.
func BodyError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		loc := append([]string{"body"}, strings.Split(typeErr.Field, ".")...)
		return &ValidationError{Violations: []Violation{typeViolation(loc, typeErr.Type)}}
	}
	return &ValidationError{Violations: []Violation{{
		Loc:  []string{"body"},
		Msg:  "JSON decode error",
		Type: "json_invalid",
	}}}
}

func typeViolation(loc []string, want reflect.Type) Violation {
	switch want.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Violation{Loc: loc, Msg: "Input should be a non-negative integer", Type: "int_type"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Violation{Loc: loc, Msg: "Input should be a valid integer", Type: "int_type"}
	case reflect.String:
		return Violation{Loc: loc, Msg: "Input should be a valid string", Type: "string_type"}
	default:
		return Violation{Loc: loc, Msg: "Input should be a valid " + want.Kind().String(), Type: want.Kind().String() + "_type"}
	}
}

// PathError reports a path parameter that is not a valid integer.
func PathError(param string) *ValidationError {
	return &ValidationError{Violations: []Violation{{
		Loc:  []string{"path", param},
		Msg:  "Input should be a valid integer, unable to parse string as an integer",
		Type: "int_parsing",
	}}}
}

// Validator checks create shapes against their validate tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns a *ValidationError listing every violation.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate %T: %w", s, err)
	}

	out := &ValidationError{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, toViolation(fe))
	}
	return out
}

func toViolation(fe validator.FieldError) Violation {
	loc := []string{"body", fe.Field()}
	isString := fe.Kind() == reflect.String

	switch {
	case fe.Tag() == "required":
		return Violation{Loc: loc, Msg: "Field required", Type: "missing"}
	case fe.Tag() == "min" && isString:
		return Violation{Loc: loc, Msg: fmt.Sprintf("String should have at least %s", characters(fe.Param())), Type: "string_too_short"}
	case fe.Tag() == "max" && isString:
		return Violation{Loc: loc, Msg: fmt.Sprintf("String should have at most %s", characters(fe.Param())), Type: "string_too_long"}
	case fe.Tag() == "email":
		return Violation{Loc: loc, Msg: "value is not a valid email address", Type: "value_error"}
	default:
		return Violation{Loc: loc, Msg: fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()), Type: fe.Tag()}
	}
}

func characters(n string) string {
	if n == "1" {
		return "1 character"
	}
	return n + " characters"
}
