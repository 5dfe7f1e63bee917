package sandwichjson

import (
	"encoding/json"
	"io"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// Omittable is implemented by values that can be absent from an encoded object.
// When a field of such a type is tagged omitempty and IsOmitted reports true,
// the key is not written at all. Omittable values always receive the raw token
// on decode, including a literal null.
type Omittable interface {
	IsOmitted() bool
}

var (
	omittableType   = reflect2.TypeOfPtr((*Omittable)(nil)).Elem()
	marshalerType   = reflect2.TypeOfPtr((*json.Marshaler)(nil)).Elem()
	unmarshalerType = reflect2.TypeOfPtr((*json.Unmarshaler)(nil)).Elem()
)

var config = jsoniter.Config{
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

func init() {
	config.RegisterExtension(&omittableExtension{})
}

func Unmarshal(data []byte, v any) error {
	return config.Unmarshal(data, v)
}

func UnmarshalReader(reader io.Reader, v any) error {
	return config.NewDecoder(reader).Decode(v)
}

func Marshal(v any) ([]byte, error) {
	return config.Marshal(v)
}

func MarshalToWriter(writer io.Writer, v any) error {
	return config.NewEncoder(writer).Encode(v)
}

type omittableExtension struct {
	jsoniter.DummyExtension
}

func (extension *omittableExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Kind() == reflect.Ptr || !typ.Implements(marshalerType) {
		return nil
	}

	switch {
	case typ.Implements(omittableType):
		return &omittableEncoder{valType: typ}
	case typ.Kind() == reflect.Slice:
		// jsoniter writes null for a nil slice before asking its marshaler.
		return &sliceMarshalerEncoder{valType: typ}
	default:
		return nil
	}
}

func (extension *omittableExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if typ.Kind() == reflect.Ptr || !typ.Implements(omittableType) {
		return nil
	}

	ptrType := reflect2.PtrTo(typ)
	if !ptrType.Implements(unmarshalerType) {
		return nil
	}

	return &omittableDecoder{ptrType: ptrType}
}

type omittableEncoder struct {
	valType reflect2.Type
}

func (encoder *omittableEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	marshaler := encoder.valType.UnsafeIndirect(ptr).(json.Marshaler)

	data, err := marshaler.MarshalJSON()
	if err != nil {
		stream.Error = err

		return
	}

	stream.Write(data)
}

func (encoder *omittableEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return encoder.valType.UnsafeIndirect(ptr).(Omittable).IsOmitted()
}

type sliceMarshalerEncoder struct {
	valType reflect2.Type
}

func (encoder *sliceMarshalerEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	marshaler := encoder.valType.UnsafeIndirect(ptr).(json.Marshaler)

	data, err := marshaler.MarshalJSON()
	if err != nil {
		stream.Error = err

		return
	}

	stream.Write(data)
}

func (encoder *sliceMarshalerEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.ValueOf(encoder.valType.UnsafeIndirect(ptr)).Len() == 0
}

type omittableDecoder struct {
	ptrType reflect2.Type
}

func (decoder *omittableDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	unmarshaler := decoder.ptrType.UnsafeIndirect(unsafe.Pointer(&ptr)).(json.Unmarshaler)

	// Skips leading whitespace so the captured token starts at the value.
	iter.WhatIsNext()

	data := iter.SkipAndReturnBytes()
	if iter.Error != nil {
		return
	}

	if err := unmarshaler.UnmarshalJSON(data); err != nil {
		iter.ReportError("omittableDecoder", err.Error())
	}
}
