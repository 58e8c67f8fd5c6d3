package config

import (
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/YaCodeDev/GoYaSocket/valueparser"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// LoadConfigStructFromEnv loads environment variables into a struct.
// It uses the field names of the struct as keys to look up values in the environment.
// The keys are converted to SCREAMING_SNAKE_CASE and nested struct fields are
// prefixed with the key of their parent, so Socket.Backoff.Initial is read
// from SOCKET_BACKOFF_INITIAL. An `env` tag replaces the derived name.
//
// A field missing from the environment keeps its preset value, falls back to
// its `default` tag, and is required otherwise. `default:""` makes a field
// optional with an empty value.
//
// Supported field types are strings, ints, uints, floats, bools,
// time.Duration, anything implementing encoding.TextUnmarshaler or
// valueparser.Unmarshalable, slices and maps of those, and nested structs.
//
// This is a wrapper around LoadConfigStructFromEnvHandlingError that exits on error.
//
// Example usage:
//
//	type Config struct {
//		URL      string        `default:"ws://127.0.0.1:8080/ws"`
//		Timeout  time.Duration `default:"10s"`
//		Headers  map[string]string `default:""`
//		LogLevel yalogger.Level `default:"info"`
//	}
//
//	var cfg Config
//
//	config.LoadConfigStructFromEnv(&cfg, log)
func LoadConfigStructFromEnv[T any](instance *T, log yalogger.Logger) {
	safetyCheck(&log)

	err := LoadConfigStructFromEnvHandlingError(instance, log)
	if err != nil {
		log.Fatalf("Failed to load config struct from env: %v", err)
	}
}

// LoadConfigStructFromEnvHandlingError is LoadConfigStructFromEnv returning
// the error instead of exiting.
//
// Example usage:
//
//	var cfg Config
//
//	if err := config.LoadConfigStructFromEnvHandlingError(&cfg, log); err != nil {
//		// handle error
//	}
func LoadConfigStructFromEnvHandlingError[T any](instance *T, log yalogger.Logger) yaerrors.Error {
	safetyCheck(&log)

	if err := loadDotEnv(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}

	value := reflect.ValueOf(instance).Elem()
	if value.Kind() != reflect.Struct {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			ErrConfigStructMustBeStruct,
			fmt.Sprintf(
				"config loader, got %T",
				instance,
			),
			log,
		)
	}

	return loadConfigStructFromEnv(value, "", log)
}

// loadConfigStructFromEnv does the actual work of LoadConfigStructFromEnv,
// recursing into nested structs.
func loadConfigStructFromEnv(
	structValue reflect.Value,
	keyPath string,
	log yalogger.Logger,
) yaerrors.Error {
	structType := structValue.Type()

	for i := range structValue.NumField() {
		field := structType.Field(i)
		fieldVal := structValue.Field(i)

		if !fieldVal.CanSet() {
			log.Warnf("Field %s cannot be set", field.Name)

			continue
		}

		envKey := field.Tag.Get(EnvTagName)
		if envKey == "" {
			envKey = toScreamingSnakeCase(field.Name)
		}

		if keyPath != "" {
			envKey = keyPath + "_" + envKey
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadConfigStructFromEnv(fieldVal, envKey, log); err != nil {
				return err.Wrap("failed to load struct field " + field.Name)
			}

			continue
		}

		raw, exists := os.LookupEnv(envKey)
		if !exists {
			if !fieldVal.IsZero() {
				continue
			}

			defaultValStr, hasDefault := field.Tag.Lookup(DefaultTagName)
			if !hasDefault {
				return yaerrors.FromErrorWithLog(
					http.StatusInternalServerError,
					ErrValueIsRequired,
					"config loader: "+envKey,
					log,
				)
			}

			raw = defaultValStr
		}

		parsed, err := parseField(raw, field.Type)
		if err != nil {
			return err.WrapWithLog(
				fmt.Sprintf("config loader: field %s (%s)", field.Name, envKey),
				log,
			)
		}

		fieldVal.Set(parsed)
	}

	return nil
}

func parseField(raw string, fieldType reflect.Type) (reflect.Value, yaerrors.Error) {
	switch {
	case fieldType.Kind() == reflect.Slice && fieldType.Elem().Kind() != reflect.Uint8:
		return valueparser.ParseSlice(raw, nil, fieldType)
	case fieldType.Kind() == reflect.Map:
		return parseMap(raw, fieldType)
	default:
		return valueparser.Parse(raw, fieldType)
	}
}

func parseMap(raw string, mapType reflect.Type) (reflect.Value, yaerrors.Error) {
	result := reflect.MakeMap(mapType)

	if raw == "" {
		return result, nil
	}

	for entry := range strings.SplitSeq(raw, valueparser.DefaultEntrySeparator) {
		parts := strings.SplitN(entry, valueparser.DefaultKVSeparator, valueparser.MapPartsCount)
		if len(parts) != valueparser.MapPartsCount {
			return reflect.Value{}, yaerrors.FromError(
				http.StatusInternalServerError,
				valueparser.ErrInvalidEntry,
				fmt.Sprintf("parse map: entry '%s'", entry),
			)
		}

		key, err := valueparser.Parse(strings.TrimSpace(parts[0]), mapType.Key())
		if err != nil {
			return reflect.Value{}, err.Wrap("parse map key")
		}

		value, err := valueparser.Parse(strings.TrimSpace(parts[1]), mapType.Elem())
		if err != nil {
			return reflect.Value{}, err.Wrap("parse map value")
		}

		result.SetMapIndex(key, value)
	}

	return result, nil
}
