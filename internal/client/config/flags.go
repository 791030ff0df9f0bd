package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/neatly/internal/flagx"
)

// ValueFlags lists the flags that take a value. The CLI uses it to tell
// flag values apart from its sub-command.
var ValueFlags = []string{"-a", "-n", "-f", "-k", "-t", "-c", "-config"}

var clientFlags = []string{"-a", "-n", "-f", "-k", "-t"}

// parseFlags overlays cfg with command-line flags from args. The request
// timeout flag is in seconds and only applied when given.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, clientFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the HTTP API")
	fs.StringVar(&cfg.GRPCAddr, "n", cfg.GRPCAddr, "address and port of the gRPC listener")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "session file")
	fs.StringVar(&cfg.RefreshCookieName, "k", cfg.RefreshCookieName, "refresh cookie name")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
