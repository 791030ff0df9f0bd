// Package config loads runtime configuration for the neatly CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the HTTP API
//	-n string   address:port of the gRPC listener
//	-f string   path of the session file
//	-k string   name of the refresh cookie
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:8080",
//	  "grpc_addr": "127.0.0.1:50051",
//	  "session_file": ".neatly/session.json",
//	  "refresh_cookie_name": "refreshToken",
//	  "request_timeout": "10s"
//	}
package config
