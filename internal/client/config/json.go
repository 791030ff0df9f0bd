package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/neatly/internal/flagx"
	"github.com/dmitrijs2005/neatly/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. Fields left empty in
// the file keep their current value.
type JsonConfig struct {
	ServerURL         string         `json:"server_url"`
	GRPCAddr          string         `json:"grpc_addr"`
	SessionFile       string         `json:"session_file"`
	RefreshCookieName string         `json:"refresh_cookie_name"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
}

func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.GRPCAddr != "" {
		cfg.GRPCAddr = jc.GRPCAddr
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.RefreshCookieName != "" {
		cfg.RefreshCookieName = jc.RefreshCookieName
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
