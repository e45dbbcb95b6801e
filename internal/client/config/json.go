package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/payshield/payshield-cli/internal/flagx"
	"github.com/payshield/payshield-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "2s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	StorePath          string         `json:"store_path"`
	PollInterval       timex.Duration `json:"poll_interval"`
	CacheFreshFor      timex.Duration `json:"cache_fresh_for"`
	CacheRetainFor     timex.Duration `json:"cache_retain_for"`
	DefaultPageSize    int            `json:"default_page_size"`
	MaxUploadBytes     int64          `json:"max_upload_bytes"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; zero values in the JSON
//     leave the existing Config values alone.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.CacheFreshFor.Duration > 0 {
		cfg.CacheFreshFor = time.Duration(jc.CacheFreshFor.Duration)
	}
	if jc.CacheRetainFor.Duration > 0 {
		cfg.CacheRetainFor = time.Duration(jc.CacheRetainFor.Duration)
	}
	if jc.DefaultPageSize > 0 {
		cfg.DefaultPageSize = jc.DefaultPageSize
	}
	if jc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = jc.MaxUploadBytes
	}
}
