package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	jsoniter "github.com/json-iterator/go"
)

var (
	unmarshalerType   = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	optionalFieldType = reflect.TypeOf((*optionalField)(nil)).Elem()
)

// requiredPlans caches the field layout of each struct type that has been checked.
var requiredPlans sync.Map // reflect.Type -> []plannedField

type plannedField struct {
	name     string
	required bool
	typ      reflect.Type
}

// checkRequired walks raw against typ and reports the first required field that
// is missing or null. Types with their own UnmarshalJSON are treated as leaves
// and must do their own checking.
func checkRequired(raw []byte, typ reflect.Type) error {
	return checkValue(raw, typ, "")
}

func checkValue(raw []byte, typ reflect.Type, path string) error {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ.Implements(optionalFieldType) {
		if isNullToken(raw) {
			return nil
		}

		return checkValue(raw, reflect.Zero(typ).Interface().(optionalField).optionalElem(), path)
	}

	if typ.Implements(unmarshalerType) || reflect.PtrTo(typ).Implements(unmarshalerType) {
		return nil
	}

	switch typ.Kind() {
	case reflect.Struct:
		return checkStruct(raw, typ, path)
	case reflect.Slice, reflect.Array:
		if !needsWalk(typ.Elem()) {
			return nil
		}

		var elements []jsoniter.RawMessage

		if err := sandwichjson.Unmarshal(raw, &elements); err != nil {
			return nil
		}

		for i, element := range elements {
			if err := checkValue(element, typ.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkStruct(raw []byte, typ reflect.Type, path string) error {
	var object map[string]jsoniter.RawMessage

	if isNullToken(raw) {
		object = map[string]jsoniter.RawMessage{}
	} else if err := sandwichjson.Unmarshal(raw, &object); err != nil {
		// Type mismatches are reported by the decoder itself.
		return nil
	}

	for _, field := range planFor(typ) {
		value, ok := object[field.name]

		fieldPath := field.name
		if path != "" {
			fieldPath = path + "." + field.name
		}

		if !ok || isNullToken(value) {
			if field.required {
				return fmt.Errorf("%w %q", ErrMissingField, fieldPath)
			}

			continue
		}

		if err := checkValue(value, field.typ, fieldPath); err != nil {
			return err
		}
	}

	return nil
}

func planFor(typ reflect.Type) []plannedField {
	if plan, ok := requiredPlans.Load(typ); ok {
		return plan.([]plannedField)
	}

	plan := buildPlan(typ)
	requiredPlans.Store(typ, plan)

	return plan
}

func buildPlan(typ reflect.Type) []plannedField {
	var plan []plannedField

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, options, _ := strings.Cut(tag, ",")

		if field.Anonymous && name == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Ptr {
				embedded = embedded.Elem()
			}

			if embedded.Kind() == reflect.Struct {
				plan = append(plan, buildPlan(embedded)...)

				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}

		required := !strings.Contains(options, "omitempty") &&
			field.Type.Kind() != reflect.Ptr &&
			!field.Type.Implements(optionalFieldType)

		plan = append(plan, plannedField{
			name:     name,
			required: required,
			typ:      field.Type,
		})
	}

	return plan
}

// needsWalk reports whether values of typ can contain required fields.
func needsWalk(typ reflect.Type) bool {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ.Implements(optionalFieldType) {
		return needsWalk(reflect.Zero(typ).Interface().(optionalField).optionalElem())
	}

	if typ.Implements(unmarshalerType) || reflect.PtrTo(typ).Implements(unmarshalerType) {
		return false
	}

	switch typ.Kind() {
	case reflect.Struct:
		return true
	case reflect.Slice, reflect.Array:
		return needsWalk(typ.Elem())
	default:
		return false
	}
}

func isNullToken(raw []byte) bool {
	raw = bytes.TrimSpace(raw)

	return len(raw) == 0 || bytes.Equal(raw, nullLiteral)
}
