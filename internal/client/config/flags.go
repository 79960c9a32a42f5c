package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   API base URL
//	-d string   local database file
//	-i int      online check interval (seconds)
//	-l string   log level
//	-b string   blob backend (sqlite, s3)
//	-listen     local API listen address
//
// Unknown arguments are filtered out with flagx.FilterArgs so other
// components can define their own flags.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-i", "-l", "-b", "-listen", "--listen"})

	fs := flag.NewFlagSet("aircontrol", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.BlobBackend, "b", cfg.BlobBackend, "blob backend (sqlite, s3)")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "local API listen address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["i"] {
		cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	}
	return nil
}
