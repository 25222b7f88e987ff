// Package config loads runtime configuration for the Housers CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: a .env file in the working directory is loaded first
//     (existing variables win), then HOUSERS_* variables are read.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-b string         backend base URL
//	-k string         backend anon (publishable) key
//	-d string         direct PostgreSQL DSN (optional)
//	-l string         local SQLite database path
//	-m string         metrics listen address, empty disables
//	-log-level string debug, info, warn or error
//	-log-format string text or json
//	-demo             run against the in-memory demo backend
//
// # JSON schema
//
// Durations can be strings like "10m" or integer nanoseconds:
//
//	{
//	  "backend_url": "https://xyz.example.co",
//	  "anon_key": "...",
//	  "import_cooldown": "10m",
//	  "s3": {"endpoint": "http://127.0.0.1:9000", "bucket": "avatars"}
//	}
package config
