// Package config reads prefixed environment variables for modules and binaries
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"toxicbot/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "INPUT_", "CORE_MODERATE_")
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully-qualified env var name for key
func (c Conf) Key(key string) string { return c.prefix + key }

func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.Key(key)))
	return v, v != ""
}

// MustString panics if key is missing or blank
func (c Conf) MustString(key string) string {
	v, ok := c.lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def if missing or blank
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// may parses key with parse; a value that does not parse is logged and def is used
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).
			Msg("invalid value; using default")
		return def
	}
	return v
}

// MayInt returns an int or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns a float64 or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns a strconv bool or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns a time.Duration or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayPort returns ":<port>" for a port in 1..65535, or ":"+def
func (c Conf) MayPort(key, def string) string {
	p := may(c, key, def, func(s string) (string, error) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 65535 {
			return "", strconv.ErrRange
		}
		return s, nil
	})
	return ":" + p
}

// MayFlag reads a workflow-style flag: only a case-insensitive "true" is true.
// Missing, empty, or any other value is false and is never logged as invalid
func (c Conf) MayFlag(key string) bool {
	v, _ := c.lookup(key)
	return strings.EqualFold(v, "true")
}
