package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix is the prefix of environment variables read by viper.
const DefaultEnvPrefix = "PGTPCH"

// Load initializes the configuration from file and environment variables.
func Load(cfgFile, envPrefix string) error {
	// explicit .env loading, a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("pgtpch")
	}

	if envPrefix == "" {
		envPrefix = DefaultEnvPrefix
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers the default value of every known key.
func SetDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_format", "json")
	viper.SetDefault("log_file", "")

	// Orchestrator
	viper.SetDefault("runconf", "runconf.json")
	viper.SetDefault("defaults", "pgtpch.conf")
	viper.SetDefault("script", "./run.sh")
	viper.SetDefault("results", "res")
	viper.SetDefault("chunk_size", 16)
	viper.SetDefault("timeout", 0)

	// Aggregator
	viper.SetDefault("aggregate.denominator", "rd")
	viper.SetDefault("aggregate.output", "")
	viper.SetDefault("aggregate.samples_file", "exectime.txt")
	viper.SetDefault("preprocess.trim", 0)
	viper.SetDefault("policy.group_pattern", `^(.+?)-`)
	viper.SetDefault("policy.pair_pattern", `-test$`)
	viper.SetDefault("policy.pair_replacement", "-ref")

	// History
	viper.SetDefault("history.type", "")
	viper.SetDefault("history.dsn", "")

	// Metrics
	viper.SetDefault("metrics.textfile", "")
	viper.SetDefault("metrics.addr", "")

	// Notification Defaults
	viper.SetDefault("notifications.slack.enabled", os.Getenv("SLACK_BOT_USER_TOKEN") != "")
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
}

// Timeout returns the per-run timeout. Bare integers are seconds, anything
// else is parsed as a duration string such as "90s".
func Timeout() time.Duration {
	raw := viper.Get("timeout")
	switch v := raw.(type) {
	case nil:
		return 0
	case string:
		if s, err := strconv.Atoi(v); err == nil {
			return time.Duration(s) * time.Second
		}
		return viper.GetDuration("timeout")
	case time.Duration:
		return v
	default:
		return time.Duration(viper.GetInt("timeout")) * time.Second
	}
}
