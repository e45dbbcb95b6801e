package config

import (
	"flag"
	"os"
	"time"

	"github.com/payshield/payshield-cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend HTTP API (default from Config)
//	-d string   path of the local session store (default from Config)
//	-i int      upload status poll interval in seconds (default from Config)
//	-l int      rows per page for the transactions list (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the backend API")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "path of the local session store")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "upload status poll interval (in seconds)")
	fs.IntVar(&cfg.DefaultPageSize, "l", cfg.DefaultPageSize, "rows per page for the transactions list")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
