// Package config loads runtime configuration for the PayShield CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-d string   path of the local session store
//	-i int      upload status poll interval (seconds)
//	-l int      rows per page for the transactions list
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "2s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://localhost:8080",
//	  "store_path": "payshield.db",
//	  "poll_interval": "2s",
//	  "cache_fresh_for": "1m",
//	  "cache_retain_for": "5m",
//	  "default_page_size": 10,
//	  "max_upload_bytes": 10485760
//	}
//
// Primary API
//
//   - type Config                     — holds the CLI's runtime settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
