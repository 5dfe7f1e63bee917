package discord

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
)

type presence uint8

const (
	presenceMissing presence = iota
	presenceNull
	presencePresent
)

// Optional holds a field that may be missing from a payload, explicitly null,
// or present with a value. The zero value is missing.
//
// Fields of this type should be tagged omitempty so a missing value is never
// written back out.
type Optional[T any] struct {
	value    T
	presence presence
}

// Some returns a present Optional.
func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, presence: presencePresent}
}

// Null returns an Optional that encodes as an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{presence: presenceNull}
}

func (o Optional[T]) IsMissing() bool {
	return o.presence == presenceMissing
}

func (o Optional[T]) IsNull() bool {
	return o.presence == presenceNull
}

func (o Optional[T]) IsPresent() bool {
	return o.presence == presencePresent
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.presence == presencePresent
}

// OrElse returns the value if present, otherwise fallback.
func (o Optional[T]) OrElse(fallback T) T {
	if o.presence == presencePresent {
		return o.value
	}

	return fallback
}

// IsOmitted implements sandwichjson.Omittable.
func (o Optional[T]) IsOmitted() bool {
	return o.presence == presenceMissing
}

// IsZero lets encoding/json omitzero drop missing values.
func (o Optional[T]) IsZero() bool {
	return o.presence == presenceMissing
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.presence != presencePresent {
		return nullLiteral, nil
	}

	return sandwichjson.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if bytes.Equal(b, nullLiteral) {
		var zero T

		o.value = zero
		o.presence = presenceNull

		return nil
	}

	var value T

	if err := sandwichjson.Unmarshal(b, &value); err != nil {
		return err
	}

	o.value = value
	o.presence = presencePresent

	return nil
}

func (o Optional[T]) String() string {
	switch o.presence {
	case presenceNull:
		return "<null>"
	case presencePresent:
		return fmt.Sprint(o.value)
	default:
		return "<missing>"
	}
}

func (o Optional[T]) optionalElem() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// optionalField lets the required field check look through an Optional.
type optionalField interface {
	optionalElem() reflect.Type
}
