package valueparser

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
)

var durationType = reflect.TypeFor[time.Duration]()

// ParseValue is a generic function that converts a string value to the specified type T.
// It returns the converted value and an error if the conversion fails.
//
// Example usage:
//
//	timeout, err := ParseValue[time.Duration]("15s")
//	if err != nil {
//		// Handle error
//	}
func ParseValue[T ParsableType](value string) (T, yaerrors.Error) {
	return ParseValueWithCustomType[T](value, reflect.TypeFor[T]())
}

// ParseValueWithCustomType converts value using the parsing rules of
// valueType and converts the result to T. It is useful when the target is a
// plain type but the text is in the format of a custom one.
//
// Example usage:
//
//	level, err := ParseValueWithCustomType[uint32]("debug", reflect.TypeOf(yalogger.Level(0)))
//	if err != nil {
//		// Handle error
//	}
func ParseValueWithCustomType[T ParsableType](
	value string,
	valueType reflect.Type,
) (T, yaerrors.Error) {
	var zero T

	parsed, err := Parse(value, valueType)
	if err != nil {
		return zero, err
	}

	target := reflect.TypeFor[T]()
	if !parsed.Type().ConvertibleTo(target) {
		return zero, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrInvalidValue,
			fmt.Sprintf("parse value: %s is not convertible to %s", valueType, target),
		)
	}

	val, _ := parsed.Convert(target).Interface().(T)

	return val, nil
}

// Parse converts value into a reflect.Value of valueType. Types implementing
// encoding.TextUnmarshaler or Unmarshalable parse themselves; time.Duration
// uses time.ParseDuration; other scalar kinds use strconv.
func Parse(value string, valueType reflect.Type) (reflect.Value, yaerrors.Error) {
	if valueType == durationType {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return reflect.Value{}, yaerrors.FromError(http.StatusInternalServerError, err, "parse duration")
		}

		return reflect.ValueOf(duration), nil
	}

	if valueType.Kind() != reflect.String && unmarshalable(valueType) {
		if parsed, err := TryUnmarshal(value, valueType); err == nil {
			return parsed, nil
		}
	}

	result := reflect.New(valueType).Elem()

	var err error

	switch valueType.Kind() {
	case reflect.String:
		result.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var parsed int64
		if parsed, err = strconv.ParseInt(value, 10, valueType.Bits()); err == nil {
			result.SetInt(parsed)
		}

	case reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Uintptr:
		var parsed uint64
		if parsed, err = strconv.ParseUint(value, 10, valueType.Bits()); err == nil {
			result.SetUint(parsed)
		}

	case reflect.Float32, reflect.Float64:
		var parsed float64
		if parsed, err = strconv.ParseFloat(value, valueType.Bits()); err == nil {
			result.SetFloat(parsed)
		}

	case reflect.Bool:
		var parsed bool
		if parsed, err = strconv.ParseBool(value); err == nil {
			result.SetBool(parsed)
		}

	case reflect.Slice:
		if valueType.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, yaerrors.FromError(
				http.StatusInternalServerError,
				ErrUnsupportedType,
				"parse value: "+valueType.String(),
			)
		}

		result.SetBytes([]byte(value))

	default:
		return reflect.Value{}, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrUnsupportedType,
			"parse value: "+valueType.String(),
		)
	}

	if err != nil {
		return reflect.Value{}, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("parse value: %q as %s", value, valueType),
		)
	}

	return result, nil
}
