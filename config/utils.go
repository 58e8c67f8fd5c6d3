package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// safetyCheck ensures that the logger is not nil before performing any operations.
// If the logger is nil, it initializes a new logger and logs a warning message.
func safetyCheck(log *yalogger.Logger) {
	if log == nil {
		return
	}

	if *log == nil {
		*log = yalogger.NewBaseLogger(nil).NewLogger()

		(*log).Warn("Logger is nil, using default logger")
	}
}

// toScreamingSnakeCase converts a string to SCREAMING_SNAKE_CASE.
// It replaces camelCase and PascalCase with underscores and converts to uppercase.
// For example, "myVariableName" becomes "MY_VARIABLE_NAME" and "MyVariableName" becomes "MY_VARIABLE_NAME".
// It also handles acronyms and abbreviations, ensuring they are treated as separate words.
// For example, "HTTPResponse" becomes "HTTP_RESPONSE" and "XMLParser" becomes "XML_PARSER".
func toScreamingSnakeCase(s string) string {
	s = matchFirstCap.ReplaceAllString(s, "${1}_${2}")
	s = matchAllCap.ReplaceAllString(s, "${1}_${2}")

	return strings.ToUpper(s)
}

// loadDotEnv exports KEY=VALUE pairs from DotEnvFile into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func loadDotEnv() yaerrors.Error {
	file, err := os.Open(DotEnvFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "open "+DotEnvFile)
	}
	defer file.Close()

	return parseDotEnv(bufio.NewScanner(file))
}

func parseDotEnv(scanner *bufio.Scanner) yaerrors.Error {
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		parts := strings.SplitN(strings.TrimPrefix(text, "export "), "=", DotEnvKVParts)
		if len(parts) != DotEnvKVParts {
			return yaerrors.FromError(
				http.StatusInternalServerError,
				ErrInvalidDotEnvFileFormat,
				fmt.Sprintf("%s line %d", DotEnvFile, line),
			)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "read "+DotEnvFile)
	}

	return nil
}
