package valueparser

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
)

// ParseArray splits a string by 'separator' and parses each part into T.
// If the string is empty, it returns an empty slice.
// If 'separator' is nil, it defaults to DefaultEntrySeparator.
//
// Example usage:
//
//	var myArray []int
//	myArray, err := ParseArray[int]("1,2,3", nil)
//	if err != nil {
//		// Handle error
//	}
func ParseArray[T ParsableType](
	str string,
	separator *string,
) ([]T, yaerrors.Error) {
	parsed, err := ParseSlice(str, separator, reflect.TypeFor[[]T]())
	if err != nil {
		return nil, err
	}

	result, _ := parsed.Interface().([]T)

	return result, nil
}

// ParseSlice is ParseArray for a slice type known only at runtime.
func ParseSlice(str string, separator *string, sliceType reflect.Type) (reflect.Value, yaerrors.Error) {
	result := reflect.MakeSlice(sliceType, 0, 0)

	if str == "" {
		return result, nil
	}

	if separator == nil {
		s := DefaultEntrySeparator
		separator = &s
	}

	for part := range strings.SplitSeq(str, *separator) {
		trimmed := strings.TrimSpace(part)

		parsed, err := Parse(trimmed, sliceType.Elem())
		if err != nil {
			return reflect.Value{}, err.Wrap(
				fmt.Sprintf(
					"parse array: failed to parse part '%s'",
					trimmed,
				),
			)
		}

		result = reflect.Append(result, parsed)
	}

	return result, nil
}
