package config

import (
	"flag"
	"io"

	"github.com/housersapp/housers/internal/flagx"
)

var knownFlags = []string{"-b", "-k", "-d", "-l", "-m", "-log-level", "-log-format", "-demo"}

// parseFlags populates Config fields from command-line flags. args is
// filtered with flagx.FilterArgs first so flags owned by other loaders
// (-c) do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("housers", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "b", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "backend anon key")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "direct PostgreSQL DSN")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local SQLite database path")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text or json)")
	fs.BoolVar(&cfg.Demo, "demo", cfg.Demo, "use the in-memory demo backend")

	return fs.Parse(args)
}
