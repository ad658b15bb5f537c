package labelpix

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DisplaySettings is the size of the frame the images are displayed and drawn on.
type DisplaySettings struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// OverlaySettings controls how boxes are drawn over images.
type OverlaySettings struct {
	Color     string  `yaml:"color"` // Hex RGB, e.g. "#ff0000".
	LineWidth float64 `yaml:"line_width"`
}

// RGBA parses the overlay color, falling back to red.
func (o OverlaySettings) RGBA() color.RGBA {
	c, err := parseHexColor(o.Color)
	if err != nil {
		return color.RGBA{R: 255, A: 255}
	}
	return c
}

// Settings holds the session configuration.
type Settings struct {
	Display     DisplaySettings `yaml:"display"`
	Overlay     OverlaySettings `yaml:"overlay"`
	JPEGQuality int             `yaml:"jpeg_quality"`
	Labels      []string        `yaml:"labels"`       // Initial session labels.
	TableFormat string          `yaml:"table_format"` // "csv" or "parquet".
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Display:     DisplaySettings{Width: 700, Height: 500},
		Overlay:     OverlaySettings{Color: "#ff0000", LineWidth: 2},
		JPEGQuality: 90,
		TableFormat: "csv",
	}
}

// LoadSettings reads settings from the YAML file at path, on top of the defaults, and then applies
// environment overrides. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("failed to read settings file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("failed to parse settings file: %w", err)
			}
		}
	}

	s.Display.Width = getEnvAsInt("LABELPIX_DISPLAY_WIDTH", s.Display.Width)
	s.Display.Height = getEnvAsInt("LABELPIX_DISPLAY_HEIGHT", s.Display.Height)
	s.TableFormat = getEnv("LABELPIX_TABLE_FORMAT", s.TableFormat)

	return s, s.Validate()
}

// Save writes the settings to path as YAML.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrFileWrite, path, err)
	}
	return nil
}

// Validate checks if the settings are valid.
func (s Settings) Validate() error {
	if s.Display.Width <= 0 || s.Display.Height <= 0 {
		return fmt.Errorf("%w: display size must be positive", ErrInvalidGeometry)
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}
	if s.Overlay.LineWidth <= 0 {
		return fmt.Errorf("overlay.line_width must be positive")
	}
	if _, err := parseHexColor(s.Overlay.Color); err != nil {
		return fmt.Errorf("overlay.color: %w", err)
	}
	switch s.TableFormat {
	case "csv", "parquet":
	default:
		return fmt.Errorf("%w: table_format %q", ErrUnsupportedFormat, s.TableFormat)
	}
	return nil
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
