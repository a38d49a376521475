// Package config handles demo and mirror configuration loading.
package config

import "fmt"

// MaxTextureSize bounds mirror.texture_size.
const MaxTextureSize = 8192

// Config holds all application settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Scene   SceneConfig   `yaml:"scene"`
	Capture CaptureConfig `yaml:"capture"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// MirrorConfig holds the reflection settings of mirror surfaces.
type MirrorConfig struct {
	DisablePixelLights bool    `yaml:"disable_pixel_lights"`
	TextureSize        int     `yaml:"texture_size"`
	ClipPlaneOffset    float32 `yaml:"clip_plane_offset"`
	ReflectLayers      uint32  `yaml:"reflect_layers"` // Bitmask, one bit per layer
	Layer              int     `yaml:"layer"`          // Layer mirrors are drawn on
}

// SceneConfig holds demo scene settings.
type SceneConfig struct {
	PointLights     bool `yaml:"point_lights"`
	PixelLightCount int  `yaml:"pixel_light_count"` // Per-pixel lights per draw
}

// CaptureConfig holds reflection target capture settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Mirror: MirrorConfig{
			DisablePixelLights: true,
			TextureSize:        256,
			ClipPlaneOffset:    0.07,
			ReflectLayers:      0xFFFFFFFF,
			Layer:              4,
		},
		Scene: SceneConfig{
			PointLights:     true,
			PixelLightCount: 4,
		},
		Capture: CaptureConfig{
			Dir:    "captures",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Mirror.TextureSize <= 0 || c.Mirror.TextureSize > MaxTextureSize {
		return fmt.Errorf("mirror.texture_size must be in 1..%d, got %d", MaxTextureSize, c.Mirror.TextureSize)
	}
	if c.Mirror.Layer < 0 || c.Mirror.Layer > 31 {
		return fmt.Errorf("mirror.layer must be in 0..31, got %d", c.Mirror.Layer)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Scene.PixelLightCount < 0 {
		return fmt.Errorf("scene.pixel_light_count must not be negative, got %d", c.Scene.PixelLightCount)
	}
	switch c.Capture.Format {
	case "png", "bmp":
	default:
		return fmt.Errorf("capture.format must be png or bmp, got %q", c.Capture.Format)
	}
	return nil
}
