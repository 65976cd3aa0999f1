package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/sheetfilter/internal/core"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with a custom variable lookup.
func LoadFrom(lookup func(string) string) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from variables.
func loadStruct(v reflect.Value, lookup func(string) string) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := strings.TrimSpace(lookup(envName))
		if alt := field.Tag.Get("envAlt"); value == "" && alt != "" {
			value = strings.TrimSpace(lookup(alt))
		}

		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		// Comma-separated, blanks dropped
		var result []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		field.Set(reflect.ValueOf(result))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	for _, k := range c.Server.APIKeys {
		if len(k) < 16 {
			errs = append(errs, "SERVER_API_KEYS entries must be at least 16 characters")
			break
		}
	}

	// Filter validation
	if c.Filter.HeaderSearchLimit <= 0 || c.Filter.HeaderSearchLimit > 1000 {
		errs = append(errs, fmt.Sprintf("FILTER_HEADER_SEARCH_LIMIT (%d) must be 1-1000", c.Filter.HeaderSearchLimit))
	}
	if len(c.Filter.DateFormats) == 0 {
		errs = append(errs, "FILTER_DATE_FORMATS must list at least one format")
	}
	for _, p := range c.Filter.DateFormats {
		if _, err := core.ParseDateFormat(p); err != nil {
			errs = append(errs, fmt.Sprintf("FILTER_DATE_FORMATS: %v", err))
		}
	}
	if _, err := core.ParseDateFormat(c.Filter.OutputDateFormat); err != nil {
		errs = append(errs, fmt.Sprintf("FILTER_OUTPUT_DATE_FORMAT: %v", err))
	}
	if msg := checkSheetName(c.Filter.ResultSheet); msg != "" {
		errs = append(errs, "FILTER_RESULT_SHEET "+msg)
	}
	if _, err := core.ParseLocale(c.Filter.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("FILTER_LOCALE: %v", err))
	}

	// Run validation
	if c.Run.MaxConcurrent <= 0 {
		errs = append(errs, "RUN_MAX_CONCURRENT must be positive")
	}
	if c.Run.MaxWaitTime <= 0 {
		errs = append(errs, "RUN_MAX_WAIT_TIME must be positive")
	}

	// Session validation
	if c.Session.Max <= 0 {
		errs = append(errs, "SESSION_MAX must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, "SESSION_IDLE_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// checkSheetName applies the worksheet naming rules of the xlsx format.
func checkSheetName(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "must not be empty"
	case utf8.RuneCountInString(name) > 31:
		return fmt.Sprintf("(%q) must be at most 31 characters", name)
	case strings.ContainsAny(name, `:\/?*[]`):
		return fmt.Sprintf("(%q) must not contain any of : \\ / ? * [ ]", name)
	}
	return ""
}

// String returns a one-line representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Addr: %q, APIKeys: %d configured}, ", c.Server.Addr(), len(c.Server.APIKeys)))
	b.WriteString(fmt.Sprintf("Filter: {HeaderSearchLimit: %d, DateFormats: %v, OutputDateFormat: %q, ResultSheet: %q, ColumnsFile: %q, Locale: %q}, ",
		c.Filter.HeaderSearchLimit, c.Filter.DateFormats, c.Filter.OutputDateFormat,
		c.Filter.ResultSheet, c.Filter.ColumnsFile, c.Filter.Locale))
	b.WriteString(fmt.Sprintf("Run: {MaxConcurrent: %d, MaxWaitTime: %s}, ",
		c.Run.MaxConcurrent, c.Run.MaxWaitTime))
	b.WriteString(fmt.Sprintf("Session: {Max: %d, IdleTimeout: %s}, ",
		c.Session.Max, c.Session.IdleTimeout))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
