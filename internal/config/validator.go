package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

var knownHistoryTypes = []string{"", "none", "json", "sqlite", "sqlite3", "postgres", "postgresql"}

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	if size := viper.GetInt("chunk_size"); size <= 0 {
		errors = append(errors, fmt.Sprintf("chunk_size must be positive, got: %d", size))
	}

	if d := Timeout(); d < 0 {
		errors = append(errors, fmt.Sprintf("timeout must not be negative, got: %v", d))
	}

	if trim := viper.GetInt("preprocess.trim"); trim < 0 {
		errors = append(errors, fmt.Sprintf("preprocess.trim must not be negative, got: %d", trim))
	}

	for _, key := range []string{"policy.group_pattern", "policy.pair_pattern"} {
		if _, err := regexp.Compile(viper.GetString(key)); err != nil {
			errors = append(errors, fmt.Sprintf("%s is not a valid regular expression: %v", key, err))
		}
	}

	historyType := strings.ToLower(viper.GetString("history.type"))
	known := false
	for _, t := range knownHistoryTypes {
		if historyType == t {
			known = true
			break
		}
	}
	if !known {
		errors = append(errors, fmt.Sprintf("history.type must be one of json, sqlite, postgres, got: %q", historyType))
	}

	switch viper.GetString("log_format") {
	case "json", "text":
	default:
		errors = append(errors, fmt.Sprintf("log_format must be json or text, got: %q", viper.GetString("log_format")))
	}

	// If there are any errors, return them
	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}

	return nil
}
