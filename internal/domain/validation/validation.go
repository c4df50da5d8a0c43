// Package validation turns raw JSON payloads into typed, constraint-checked inputs.
//
// Constraints are declared with gin's `binding` struct tags and evaluated by the
// go-playground validator engine that gin ships with, so the same rules apply whether a
// payload arrives over HTTP or is built in code.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

const tagName = "binding"

// FieldError describes one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	order int
}

// ValidationError enumerates every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Detail maps each failing field to its reason.
func (e *ValidationError) Detail() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// Has reports whether the given field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(order int, field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message, order: order})
}

func (e *ValidationError) orErr() error {
	if len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].order < e.Fields[j].order })
	return e
}

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func validate() *validator.Validate {
	engineOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			v = validator.New()
			v.SetTagName(tagName)
		}
		v.RegisterTagNameFunc(jsonName)
		engine = v
	})
	return engine
}

func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return sf.Name
	}
	return name
}

// Decode fills dst (a pointer to a create-input struct) from a JSON object and checks
// every constraint. Defaults are applied before decoding, so omitted fields keep them.
// All failures are reported together in a *ValidationError.
func Decode(raw []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: decode target must be a non-nil struct pointer, got %T", dst)
	}

	if d, ok := dst.(models.Defaulter); ok {
		d.ApplyDefaults()
	}

	verr := &ValidationError{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		verr.add(-1, "body", "request body must be a JSON object")
		return verr
	}

	elem := rv.Elem()
	typ := elem.Type()
	failed := make(map[string]bool)
	present := make(map[string]bool)

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		name := jsonName(sf)
		if !sf.IsExported() || name == "" {
			continue
		}

		value, ok := fields[name]
		if !ok || isNull(value) {
			if isRequired(sf) {
				verr.add(i, name, "field required")
				failed[name] = true
			}
			continue
		}
		present[name] = true

		if err := json.Unmarshal(value, elem.Field(i).Addr().Interface()); err != nil {
			verr.add(i, name, decodeMessage(err))
			failed[name] = true
		}
	}

	collect(verr, typ, dst, func(name string) bool { return failed[name] }, present)
	return verr.orErr()
}

// Struct checks the constraints of an already-typed input.
func Struct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validation: expected a struct, got %T", v)
	}

	verr := &ValidationError{}
	collect(verr, rv.Type(), v, func(string) bool { return false }, nil)
	return verr.orErr()
}

func collect(verr *ValidationError, typ reflect.Type, v any, skip func(string) bool, present map[string]bool) {
	err := validate().Struct(v)
	if err == nil {
		return
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		verr.add(-1, "body", err.Error())
		return
	}

	for _, fe := range ves {
		name := fe.Field()
		if skip(name) {
			continue
		}
		sf, _ := typ.FieldByName(fe.StructField())
		order := -1
		if len(sf.Index) > 0 {
			order = sf.Index[0]
		}
		verr.add(order, name, describeFieldError(fe, sf, present[name]))
	}
}

func describeFieldError(fe validator.FieldError, sf reflect.StructField, present bool) string {
	// A present zero value trips "required" first; report the constraint it actually breaks.
	if fe.Tag() == "required" && present {
		for _, rule := range strings.Split(sf.Tag.Get(tagName), ",") {
			tag, param, _ := strings.Cut(rule, "=")
			if tag == "required" || tag == "omitempty" || tag == "" {
				continue
			}
			return describe(tag, param, fe.Kind())
		}
	}
	return describe(fe.Tag(), fe.Param(), fe.Kind())
}

func describe(tag, param string, kind reflect.Kind) string {
	switch tag {
	case "required":
		return "field required"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "min":
		switch kind {
		case reflect.String:
			return "must be at least " + param + " characters long"
		case reflect.Slice, reflect.Array, reflect.Map:
			return "must contain at least " + param + " item(s)"
		}
		return "must be at least " + param
	case "max":
		switch kind {
		case reflect.String:
			return "must be at most " + param + " characters long"
		case reflect.Slice, reflect.Array, reflect.Map:
			return "must contain at most " + param + " item(s)"
		}
		return "must be at most " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		return "failed " + tag + " validation"
	}
}

func isRequired(sf reflect.StructField) bool {
	for _, rule := range strings.Split(sf.Tag.Get(tagName), ",") {
		if rule == "required" {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return err.Error()
	}

	t := typeErr.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be a boolean"
	case reflect.Slice, reflect.Array:
		return "must be a list"
	default:
		return "has an invalid type"
	}
}
