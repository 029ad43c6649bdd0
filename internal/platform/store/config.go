package store

import (
	"time"

	"toxicbot/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	Version string

	CH CHConfig
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled     bool
	URL         string
	DialTimeout time.Duration
}

// ConfigFrom reads SERVICE_CLICKHOUSE_* style keys from cfg
// clickhouse is enabled whenever DBURL is set
func ConfigFrom(cfg config.Conf, app, version string) Config {
	url := cfg.MayString("DBURL", "")
	return Config{
		AppName: app,
		Version: version,
		CH: CHConfig{
			Enabled:     url != "",
			URL:         url,
			DialTimeout: cfg.MayDuration("DIAL_TIMEOUT", 10*time.Second),
		},
	}
}
