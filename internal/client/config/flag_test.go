package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"me", "-a", "http://h:1", "-n", "h:2", "-f", "s.json", "-k", "rt", "-t", "5"},
			expected: &Config{ServerURL: "http://h:1", GRPCAddr: "h:2", SessionFile: "s.json",
				RefreshCookieName: "rt", RequestTimeout: 5 * time.Second},
		},
		{
			name:     "timeout untouched when not given",
			args:     []string{"logout", "-a", "http://h:1"},
			expected: &Config{ServerURL: "http://h:1", RequestTimeout: 1500 * time.Millisecond},
		},
		{
			name:    "incorrect timeout",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{RequestTimeout: 1500 * time.Millisecond}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
