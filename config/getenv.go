package config

import (
	"os"

	"github.com/YaCodeDev/GoYaSocket/valueparser"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// GetEnv reads key and parses it as T. An unset or unparsable variable yields
// fallback, or exits the process when required is true.
//
//	timeout := config.GetEnv("SOCKET_HANDSHAKE_TIMEOUT", 10*time.Second, false, log)
func GetEnv[T valueparser.ParsableType](
	key string,
	fallback T,
	required bool,
	log yalogger.Logger,
) T {
	return lookupEnv(key, fallback, required, log, valueparser.ParseValue[T])
}

// GetEnvArray reads key as a separator-delimited list of T. A nil separator
// means ",".
//
//	protocols := config.GetEnvArray[string]("SOCKET_PROTOCOLS", nil, nil, false, log)
func GetEnvArray[T valueparser.ParsableType](
	key string,
	fallback []T,
	separator *string,
	required bool,
	log yalogger.Logger,
) []T {
	return lookupEnv(key, fallback, required, log, func(value string) ([]T, yaerrors.Error) {
		return valueparser.ParseArray[T](value, separator)
	})
}

// GetEnvMap reads key as "k:v,k:v" pairs. Nil separators mean "," between
// entries and ":" between key and value.
//
//	headers := config.GetEnvMap[string, string]("SOCKET_HEADERS", nil, false, nil, nil, log)
func GetEnvMap[K valueparser.ParsableComparableType, V valueparser.ParsableType](
	key string,
	fallback map[K]V,
	required bool,
	entrySeparator *string,
	kvSeparator *string,
	log yalogger.Logger,
) map[K]V {
	return lookupEnv(key, fallback, required, log, func(value string) (map[K]V, yaerrors.Error) {
		return valueparser.ParseMap[K, V](value, entrySeparator, kvSeparator)
	})
}

func lookupEnv[T any](
	key string,
	fallback T,
	required bool,
	log yalogger.Logger,
	parse func(string) (T, yaerrors.Error),
) T {
	safetyCheck(&log)

	value, exists := os.LookupEnv(key)
	if exists {
		parsed, err := parse(value)
		if err == nil {
			return parsed
		}

		log.Errorf("%v: %s: %v", ErrInvalidEnvValue, key, err)
	}

	if required {
		log.Fatalf("%v: %s", ErrValueIsRequired, key)
	}

	if exists {
		log.Warnf("Using default value %v for %s", fallback, key)
	}

	return fallback
}
