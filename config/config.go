package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
)

const (
	DisplayModeScroll = "scroll"
	DisplayModeStatic = "static"

	DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/golf/pga/leaderboard"
)

// Config struct to hold the configuration settings
type Config struct {
	Plugin        PluginConfig        `yaml:"plugin"`
	ESPN          ESPNConfig          `yaml:"espn"`
	Matrix        MatrixConfig        `yaml:"matrix"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PluginConfig holds the leaderboard plugin settings.
type PluginConfig struct {
	ID                  string  `yaml:"id"`
	Enabled             bool    `yaml:"enabled"`
	DisplayDurationSecs float64 `yaml:"display_duration"`
	UpdateIntervalSecs  int     `yaml:"update_interval"`
	MaxPlayers          int     `yaml:"max_players"`
	FallbackPlayers     int     `yaml:"fallback_players"`
	TournamentDateRange int     `yaml:"tournament_date_range"`
	FontSize            int     `yaml:"font_size"`
	FontName            string  `yaml:"font_name"`
	FontDir             string  `yaml:"font_dir"`
	TextColor           RGB     `yaml:"text_color"`
	HighlightColor      RGB     `yaml:"highlight_color"`
	DisplayMode         string  `yaml:"display_mode"`
	ScrollSpeed         int     `yaml:"scroll_speed"`
	FrameRate           int     `yaml:"frame_rate"`
	ShowLogo            bool    `yaml:"show_logo"`
	LogoPath            string  `yaml:"logo_path"`
}

// RGB is a colour as written in the config file.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// ESPNConfig holds the feed client settings.
type ESPNConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	MaxRetries        int           `yaml:"max_retries"`
	PreviousCacheTTL  time.Duration `yaml:"previous_cache_ttl"`
}

// MatrixConfig holds the pixel panel geometry.
type MatrixConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	NATSSubject string `yaml:"nats_subject"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the status API listener.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Plugin: DefaultPlugin(),
		ESPN: ESPNConfig{
			BaseURL:           DefaultBaseURL,
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
			MaxRetries:        2,
			PreviousCacheTTL:  24 * time.Hour,
		},
		Matrix: MatrixConfig{
			Width:       64,
			Height:      32,
			NATSSubject: "ledmatrix.frames.pga",
		},
		HTTP: HTTPConfig{Address: ":8080"},
		Observability: ObservabilityConfig{
			Environment: "development",
			LogLevel:    "info",
			LogFormat:   "json",
		},
	}
}

// DefaultPlugin returns the plugin defaults.
func DefaultPlugin() PluginConfig {
	return PluginConfig{
		ID:                  "pga-tour-leaderboard",
		Enabled:             true,
		DisplayDurationSecs: 15,
		UpdateIntervalSecs:  600,
		MaxPlayers:          10,
		FallbackPlayers:     5,
		TournamentDateRange: 7,
		FontSize:            6,
		FontName:            "4x6-font.ttf",
		FontDir:             "assets/fonts",
		TextColor:           RGB{R: 255, G: 255, B: 255},
		HighlightColor:      RGB{R: 255, G: 215, B: 0},
		DisplayMode:         DisplayModeScroll,
		ScrollSpeed:         1,
		FrameRate:           20,
		ShowLogo:            true,
		LogoPath:            "assets/logos/pga.png",
	}
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ESPN_BASE_URL"); v != "" {
		cfg.ESPN.BaseURL = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v, ok := os.LookupEnv("HTTP_ADDRESS"); ok {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PGA_MAX_PLAYERS", &cfg.Plugin.MaxPlayers},
		{"PGA_UPDATE_INTERVAL", &cfg.Plugin.UpdateIntervalSecs},
		{"MATRIX_WIDTH", &cfg.Matrix.Width},
		{"MATRIX_HEIGHT", &cfg.Matrix.Height},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", e.name, err)
		}
		*e.dst = n
	}

	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Plugin.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Matrix.Width <= 0 || c.Matrix.Height <= 0 {
		errs = append(errs, fmt.Errorf("'matrix' width and height must be positive, got %dx%d", c.Matrix.Width, c.Matrix.Height))
	}
	if c.ESPN.BaseURL == "" {
		errs = append(errs, errors.New("'espn.base_url' must be set"))
	}
	return errors.Join(errs...)
}

// Validate checks the plugin settings.
func (p *PluginConfig) Validate() error {
	var errs []error
	if p.MaxPlayers < 1 || p.MaxPlayers > 20 {
		errs = append(errs, errors.New("'max_players' must be an integer between 1 and 20"))
	}
	if p.TournamentDateRange < 0 || p.TournamentDateRange > 30 {
		errs = append(errs, errors.New("'tournament_date_range' must be an integer between 0 and 30"))
	}
	if p.FallbackPlayers < 0 || p.FallbackPlayers > 20 {
		errs = append(errs, errors.New("'fallback_players' must be an integer between 0 and 20"))
	}
	if p.UpdateIntervalSecs < 1 {
		errs = append(errs, errors.New("'update_interval' must be at least 1 second"))
	}
	if p.DisplayDurationSecs <= 0 {
		errs = append(errs, errors.New("'display_duration' must be positive"))
	}
	if p.FontSize < 1 || p.FontSize > 64 {
		errs = append(errs, errors.New("'font_size' must be between 1 and 64"))
	}
	if p.DisplayMode != DisplayModeScroll && p.DisplayMode != DisplayModeStatic {
		errs = append(errs, fmt.Errorf("'display_mode' must be %q or %q", DisplayModeScroll, DisplayModeStatic))
	}
	if p.ScrollSpeed < 1 {
		errs = append(errs, errors.New("'scroll_speed' must be at least 1"))
	}
	if p.FrameRate < 1 || p.FrameRate > 120 {
		errs = append(errs, errors.New("'frame_rate' must be between 1 and 120"))
	}
	return errors.Join(errs...)
}

func (p PluginConfig) UpdateInterval() time.Duration {
	return time.Duration(p.UpdateIntervalSecs) * time.Second
}

func (p PluginConfig) DisplayDuration() time.Duration {
	return time.Duration(p.DisplayDurationSecs * float64(time.Second))
}

func (p PluginConfig) FrameInterval() time.Duration {
	if p.FrameRate <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(p.FrameRate)
}

// Color converts to an opaque color.RGBA.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "pga-leaderboard",
		Environment: appCfg.Observability.Environment,
		Version:     "1.1.0",
		LogLevel:    appCfg.Observability.LogLevel,
		LogFormat:   appCfg.Observability.LogFormat,
	}
}
