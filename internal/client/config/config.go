package config

import "time"

// Config holds runtime settings for the PayShield CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - StorePath: path of the local SQLite session store.
//   - PollInterval: how often an upload job's status is polled.
//   - CacheFreshFor: how long a cached transactions page is served without
//     revalidation.
//   - CacheRetainFor: how long an aged page remains usable while a
//     background refetch runs; older pages are dropped.
//   - DefaultPageSize: rows per page for the transactions list.
//   - MaxUploadBytes: client-side ceiling for bulk upload files.
type Config struct {
	ServerEndpointAddr string
	StorePath          string
	PollInterval       time.Duration
	CacheFreshFor      time.Duration
	CacheRetainFor     time.Duration
	DefaultPageSize    int
	MaxUploadBytes     int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8080"
	c.StorePath = "payshield.db"
	c.PollInterval = 2 * time.Second
	c.CacheFreshFor = time.Minute
	c.CacheRetainFor = 5 * time.Minute
	c.DefaultPageSize = 10
	c.MaxUploadBytes = 10 << 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
