package valueparser

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
)

// ParseMap parses a string into a map[K]V using the provided separators.
// It splits the string by 'entrySeparator' and each entry by 'kvSeparator'.
// If 'entrySeparator' is nil, it defaults to DefaultEntrySeparator.
// If 'kvSeparator' is nil, it defaults to DefaultKVSeparator.
// If the string is empty, it returns an empty map.
//
// Example usage:
//
//	headers, err := ParseMap[string, string]("Authorization:Bearer x,X-Trace:1", nil, nil)
//	if err != nil {
//		// Handle error
//	}
func ParseMap[K ParsableComparableType, V ParsableType](
	str string,
	entrySeparator *string,
	kvSeparator *string,
) (map[K]V, yaerrors.Error) {
	result := make(map[K]V)

	if str == "" {
		return result, nil
	}

	if entrySeparator == nil {
		s := DefaultEntrySeparator
		entrySeparator = &s
	}

	if kvSeparator == nil {
		s := DefaultKVSeparator
		kvSeparator = &s
	}

	for item := range strings.SplitSeq(str, *entrySeparator) {
		parts := strings.SplitN(item, *kvSeparator, MapPartsCount)
		if len(parts) != MapPartsCount {
			return nil, yaerrors.FromError(
				http.StatusInternalServerError,
				ErrInvalidEntry,
				fmt.Sprintf("parse map: entry '%s' has no '%s'", item, *kvSeparator),
			)
		}

		k, err := ParseValue[K](strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err.Wrap(fmt.Sprintf("parse map: failed to parse key '%s'", strings.TrimSpace(parts[0])))
		}

		v, err := ParseValue[V](strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err.Wrap(fmt.Sprintf("parse map: failed to parse value '%s'", strings.TrimSpace(parts[1])))
		}

		result[k] = v
	}

	return result, nil
}
