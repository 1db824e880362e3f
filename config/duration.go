// config/duration.go
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errNonPositive = errors.New("duration must be > 0")

// parseDurationFlexible reads a timeout from whatever viper produced:
// a time.Duration, a Go duration string ("90s"), or seconds given as a
// number or numeric string. nil, "" and unknown types yield def. Bad or
// non-positive values yield def together with an error.
func parseDurationFlexible(raw any, def time.Duration) (time.Duration, error) {
	var d time.Duration
	switch t := raw.(type) {
	case time.Duration:
		d = t
	case int:
		d = seconds(float64(t))
	case int64:
		d = seconds(float64(t))
	case float64:
		d = seconds(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		parsed, err := parseDurationString(s)
		if err != nil {
			return def, err
		}
		d = parsed
	default:
		return def, nil
	}

	if d <= 0 {
		return def, errNonPositive
	}
	return d, nil
}

func parseDurationString(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return seconds(n), nil
	}
	return 0, fmt.Errorf("cannot parse duration %q", s)
}

func seconds(n float64) time.Duration { return time.Duration(n * float64(time.Second)) }
