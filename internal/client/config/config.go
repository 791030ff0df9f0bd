package config

import "time"

// Config holds runtime settings for the neatly CLI.
type Config struct {
	ServerURL         string
	GRPCAddr          string
	SessionFile       string
	RefreshCookieName string
	RequestTimeout    time.Duration
}

// LoadDefaults populates c with defaults matching a locally running server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.GRPCAddr = "127.0.0.1:50051"
	c.SessionFile = ".neatly/session.json"
	c.RefreshCookieName = "refreshToken"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config from defaults, then the JSON file, then flags
// found in args. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
