// config/appconfig.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AppKey defines an application-level configuration key. It is loaded with
// the same precedence as the core keys: flags > env > config files > defaults.
type AppKey struct {
	// Name is used as-is for config files and flags, and uppercased with
	// the EMAILCHECK_ prefix for env vars (min_digits -> EMAILCHECK_MIN_DIGITS).
	Name string

	// Default is the value when nothing else sets the key. Its type decides
	// how env and file values are coerced.
	// Supported types: string, int, int64, bool, []string.
	// int64 values are read back with Int.
	Default any

	// Desc is a short description for --help output.
	Desc string
}

// AppConfigValues holds the loaded app configuration values by AppKey.Name.
type AppConfigValues map[string]any

// String returns a string value or empty string if not found/wrong type.
func (a AppConfigValues) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns a bool value or false if not found/wrong type.
func (a AppConfigValues) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// Int returns an int value or 0 if not found/wrong type.
func (a AppConfigValues) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// registerAppFlags registers command-line flags for app config keys.
// Must be called before fs.Parse.
func registerAppFlags(fs *pflag.FlagSet, keys []AppKey) error {
	for _, key := range keys {
		if fs.Lookup(key.Name) != nil {
			return fmt.Errorf("config key %q conflicts with existing flag", key.Name)
		}

		switch d := key.Default.(type) {
		case string:
			fs.String(key.Name, d, key.Desc)
		case int:
			fs.Int(key.Name, d, key.Desc)
		case int64:
			fs.Int64(key.Name, d, key.Desc)
		case bool:
			fs.Bool(key.Name, d, key.Desc)
		case []string:
			fs.StringSlice(key.Name, d, key.Desc)
		default:
			return fmt.Errorf("config key %q has unsupported default type %T", key.Name, key.Default)
		}
	}
	return nil
}

// loadAppConfig reads each key from v (which already carries env, file,
// default and flag layers) and coerces it to the type of its default.
func loadAppConfig(logger *zap.Logger, v *viper.Viper, keys []AppKey) (AppConfigValues, error) {
	result := make(AppConfigValues, len(keys))
	for _, key := range keys {
		switch key.Default.(type) {
		case string:
			result[key.Name] = v.GetString(key.Name)
		case int:
			result[key.Name] = v.GetInt(key.Name)
		case int64:
			result[key.Name] = v.GetInt64(key.Name)
		case bool:
			result[key.Name] = v.GetBool(key.Name)
		case []string:
			result[key.Name] = v.GetStringSlice(key.Name)
		default:
			return nil, fmt.Errorf("config key %q has unsupported default type %T", key.Name, key.Default)
		}
	}

	if logger != nil && len(keys) > 0 {
		fields := make([]zap.Field, 0, len(keys))
		for _, key := range keys {
			nameLower := strings.ToLower(key.Name)
			if strings.Contains(nameLower, "key") ||
				strings.Contains(nameLower, "secret") ||
				strings.Contains(nameLower, "password") ||
				strings.Contains(nameLower, "token") {
				fields = append(fields, zap.String(key.Name, "[REDACTED]"))
			} else {
				fields = append(fields, zap.Any(key.Name, result[key.Name]))
			}
		}
		logger.Info("app config loaded", fields...)
	}

	return result, nil
}
