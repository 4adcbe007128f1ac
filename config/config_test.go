package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
plugin:
  max_players: 5
  tournament_date_range: 3
  text_color:
    r: 10
  display_mode: static
espn:
  timeout: 3s
matrix:
  width: 128
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Plugin.MaxPlayers)
	assert.Equal(t, 3, cfg.Plugin.TournamentDateRange)
	assert.Equal(t, DisplayModeStatic, cfg.Plugin.DisplayMode)
	assert.Equal(t, RGB{R: 10, G: 255, B: 255}, cfg.Plugin.TextColor)
	assert.Equal(t, RGB{R: 255, G: 215, B: 0}, cfg.Plugin.HighlightColor)
	assert.Equal(t, 3*time.Second, cfg.ESPN.Timeout)
	assert.Equal(t, 128, cfg.Matrix.Width)
	assert.Equal(t, 32, cfg.Matrix.Height)
	assert.Equal(t, 600, cfg.Plugin.UpdateIntervalSecs)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Plugin, cfg.Plugin)
	assert.Equal(t, DefaultBaseURL, cfg.ESPN.BaseURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ESPN_BASE_URL", "http://localhost:9999/feed")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PGA_MAX_PLAYERS", "15")
	t.Setenv("MATRIX_HEIGHT", "16")

	cfg, err := LoadConfig(writeConfig(t, "plugin:\n  max_players: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/feed", cfg.ESPN.BaseURL)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "", cfg.HTTP.Address)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, 15, cfg.Plugin.MaxPlayers)
	assert.Equal(t, 16, cfg.Matrix.Height)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "plugin: [not, a, map"))
	assert.Error(t, err)

	t.Setenv("PGA_UPDATE_INTERVAL", "soon")
	_, err = LoadConfig(writeConfig(t, "{}"))
	assert.ErrorContains(t, err, "PGA_UPDATE_INTERVAL")
}

func TestPluginConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PluginConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*PluginConfig) {}},
		{name: "max players zero", mutate: func(p *PluginConfig) { p.MaxPlayers = 0 }, wantErr: "max_players"},
		{name: "max players too many", mutate: func(p *PluginConfig) { p.MaxPlayers = 21 }, wantErr: "max_players"},
		{name: "date range negative", mutate: func(p *PluginConfig) { p.TournamentDateRange = -1 }, wantErr: "tournament_date_range"},
		{name: "date range too far", mutate: func(p *PluginConfig) { p.TournamentDateRange = 31 }, wantErr: "tournament_date_range"},
		{name: "fallback disabled", mutate: func(p *PluginConfig) { p.FallbackPlayers = 0 }},
		{name: "fallback negative", mutate: func(p *PluginConfig) { p.FallbackPlayers = -2 }, wantErr: "fallback_players"},
		{name: "update interval", mutate: func(p *PluginConfig) { p.UpdateIntervalSecs = 0 }, wantErr: "update_interval"},
		{name: "display duration", mutate: func(p *PluginConfig) { p.DisplayDurationSecs = 0 }, wantErr: "display_duration"},
		{name: "font size", mutate: func(p *PluginConfig) { p.FontSize = 0 }, wantErr: "font_size"},
		{name: "display mode", mutate: func(p *PluginConfig) { p.DisplayMode = "marquee" }, wantErr: "display_mode"},
		{name: "scroll speed", mutate: func(p *PluginConfig) { p.ScrollSpeed = 0 }, wantErr: "scroll_speed"},
		{name: "frame rate", mutate: func(p *PluginConfig) { p.FrameRate = 500 }, wantErr: "frame_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPlugin()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfigValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Plugin.MaxPlayers = 0
	cfg.Matrix.Width = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "max_players")
	assert.ErrorContains(t, err, "matrix")
}

func TestDurations(t *testing.T) {
	p := DefaultPlugin()
	p.DisplayDurationSecs = 1.5
	p.FrameRate = 25

	assert.Equal(t, 10*time.Minute, p.UpdateInterval())
	assert.Equal(t, 1500*time.Millisecond, p.DisplayDuration())
	assert.Equal(t, 40*time.Millisecond, p.FrameInterval())
}
