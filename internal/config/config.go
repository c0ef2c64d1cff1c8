// Package config loads the panel configuration from a YAML file.
// Flag parsing is done in cmd/deskpet/main.go; this struct is data only.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultFramesDir = "/var/lib/deskpet/pictures"
	DefaultWebPort   = "8778"
)

// Display holds panel geometry and refresh settings.
type Display struct {
	// Width and Height are the panel resolution in pixels.
	Width  int `yaml:"w"`
	Height int `yaml:"h"`

	// Brightness is the backlight level 0-100. The GC9307 backlight
	// pin is binary, so anything above zero turns it on.
	Brightness int `yaml:"brightness"`

	// FPSVideo is the playback rate for frame sequences.
	FPSVideo float64 `yaml:"fps_video"`
}

// LCD holds the SPI bus and GPIO pin assignments for the panel.
type LCD struct {
	// SPIPort is the periph.io SPI port name (e.g. "SPI0.0").
	SPIPort string `yaml:"spi_port"`

	// SpeedMHz is the SPI clock in megahertz.
	SpeedMHz int `yaml:"speed_mhz"`

	ResetPin     string `yaml:"reset_pin"`
	DCPin        string `yaml:"dc_pin"`
	CSPin        string `yaml:"cs_pin"`
	BacklightPin string `yaml:"backlight_pin"`
}

// Video holds frame sequence discovery settings.
type Video struct {
	// FramesDir is the root directory scanned for video_<N> frames.
	FramesDir string `yaml:"frames_dir"`

	// Sequence optionally pins playback to one sequence key. Empty
	// means the first playable key in sorted order.
	Sequence string `yaml:"sequence"`
}

// Network holds the connectivity probe settings.
type Network struct {
	ConnectTestHost string `yaml:"connect_test_host"`
	ConnectTestPort int    `yaml:"connect_test_port"`
	ConnectTimeout  int    `yaml:"connect_timeout"`
	RefreshSeconds  int    `yaml:"refresh_seconds"`
}

// Web holds the local control/status server settings.
type Web struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// Config is the root configuration.
type Config struct {
	Display  Display `yaml:"display"`
	LCD      LCD     `yaml:"lcd"`
	Video    Video   `yaml:"video"`
	Network  Network `yaml:"network"`
	Web      Web     `yaml:"web"`
	LogLevel string  `yaml:"log_level"`
}

// DefaultConfig returns sensible defaults for a 2 inch 240x320 panel.
func DefaultConfig() Config {
	return Config{
		Display: Display{
			Width:      240,
			Height:     320,
			Brightness: 80,
			FPSVideo:   10,
		},
		LCD: LCD{
			SPIPort:      "SPI0.0",
			SpeedMHz:     40,
			ResetPin:     "GPIO27",
			DCPin:        "GPIO25",
			CSPin:        "GPIO8",
			BacklightPin: "GPIO18",
		},
		Video: Video{
			FramesDir: DefaultFramesDir,
		},
		Network: Network{
			ConnectTestHost: "223.5.5.5",
			ConnectTestPort: 53,
			ConnectTimeout:  2,
			RefreshSeconds:  15,
		},
		Web: Web{
			Enabled: true,
			Port:    DefaultWebPort,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; the defaults are returned with only env overrides applied.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Env overrides still apply without a config file.
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment overrides. Priority: env > file > defaults.
func (c *Config) applyEnv() {
	if dir := os.Getenv("DESKPET_FRAMES_DIR"); dir != "" {
		c.Video.FramesDir = dir
	}
	if port := os.Getenv("DESKPET_WEB_PORT"); port != "" {
		c.Web.Port = port
	}
	if fps := os.Getenv("DESKPET_FPS_VIDEO"); fps != "" {
		if v, err := strconv.ParseFloat(fps, 64); err == nil {
			c.Display.FPSVideo = v
		}
	}
}

// Validate checks the fields the daemon cannot start without.
func (c Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display: invalid resolution %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.FPSVideo <= 0 {
		return fmt.Errorf("display: fps_video must be positive, got %v", c.Display.FPSVideo)
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > 100 {
		return fmt.Errorf("display: brightness %d out of range 0-100", c.Display.Brightness)
	}
	if c.Video.FramesDir == "" {
		return fmt.Errorf("video: frames_dir must be set")
	}
	return nil
}
