package valueparser

import (
	"encoding"
	"net/http"
	"reflect"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
)

// TryUnmarshal parses value into a new valueType through its
// encoding.TextUnmarshaler or Unmarshalable implementation.
//
// Example usage:
//
//	level, err := TryUnmarshal("warn", reflect.TypeOf(yalogger.Level(0)))
func TryUnmarshal(value string, valueType reflect.Type) (reflect.Value, yaerrors.Error) {
	ptr := reflect.New(valueType)

	if unmarshaler, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := unmarshaler.UnmarshalText([]byte(value)); err != nil {
			return reflect.Value{}, yaerrors.FromError(
				http.StatusInternalServerError,
				err,
				"try unmarshal: "+valueType.String(),
			)
		}

		return ptr.Elem(), nil
	}

	if unmarshaler, ok := ptr.Interface().(Unmarshalable); ok {
		if err := unmarshaler.Unmarshal(value); err != nil {
			return reflect.Value{}, yaerrors.FromError(
				http.StatusInternalServerError,
				err,
				"try unmarshal: "+valueType.String(),
			)
		}

		return ptr.Elem(), nil
	}

	return reflect.Value{}, yaerrors.FromError(
		http.StatusInternalServerError,
		ErrUnparsableValue,
		"try unmarshal: "+valueType.String(),
	)
}

func unmarshalable(valueType reflect.Type) bool {
	ptr := reflect.PointerTo(valueType)

	return ptr.Implements(reflect.TypeFor[encoding.TextUnmarshaler]()) ||
		ptr.Implements(reflect.TypeFor[Unmarshalable]())
}
