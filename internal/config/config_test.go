package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if !cfg.Mirror.DisablePixelLights {
		t.Error("expected disable_pixel_lights to be true by default")
	}
	if cfg.Mirror.TextureSize != 256 {
		t.Errorf("expected texture size 256, got %d", cfg.Mirror.TextureSize)
	}
	if cfg.Mirror.ClipPlaneOffset != 0.07 {
		t.Errorf("expected clip plane offset 0.07, got %f", cfg.Mirror.ClipPlaneOffset)
	}
	if cfg.Mirror.ReflectLayers != 0xFFFFFFFF {
		t.Errorf("expected all reflect layers, got %#x", cfg.Mirror.ReflectLayers)
	}
	if cfg.Mirror.Layer != 4 {
		t.Errorf("expected mirror layer 4, got %d", cfg.Mirror.Layer)
	}

	if cfg.Capture.Dir != "captures" || cfg.Capture.Format != "png" {
		t.Errorf("expected captures/png, got %s/%s", cfg.Capture.Dir, cfg.Capture.Format)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mirror.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

mirror:
  disable_pixel_lights: false
  texture_size: 1024
  clip_plane_offset: 0.02
  reflect_layers: 15
  layer: 9

scene:
  point_lights: false
  pixel_light_count: 2

logging:
  level: "debug"
  log_file: "mirror.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Mirror.DisablePixelLights {
		t.Error("expected disable_pixel_lights to be false")
	}
	if cfg.Mirror.TextureSize != 1024 {
		t.Errorf("expected texture size 1024, got %d", cfg.Mirror.TextureSize)
	}
	if cfg.Mirror.ClipPlaneOffset != 0.02 {
		t.Errorf("expected clip plane offset 0.02, got %f", cfg.Mirror.ClipPlaneOffset)
	}
	if cfg.Mirror.ReflectLayers != 15 {
		t.Errorf("expected reflect layers 15, got %d", cfg.Mirror.ReflectLayers)
	}
	if cfg.Mirror.Layer != 9 {
		t.Errorf("expected layer 9, got %d", cfg.Mirror.Layer)
	}

	if cfg.Scene.PointLights {
		t.Error("expected point_lights to be false")
	}
	if cfg.Scene.PixelLightCount != 2 {
		t.Errorf("expected pixel light count 2, got %d", cfg.Scene.PixelLightCount)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "mirror.log" {
		t.Errorf("expected log file 'mirror.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileKeepsUnsetDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mirror.yaml")

	if err := os.WriteFile(configPath, []byte("mirror:\n  texture_size: 512\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Mirror.TextureSize != 512 {
		t.Errorf("expected texture size 512, got %d", cfg.Mirror.TextureSize)
	}
	if cfg.Mirror.ClipPlaneOffset != 0.07 {
		t.Errorf("expected default clip offset to survive, got %f", cfg.Mirror.ClipPlaneOffset)
	}
	if !cfg.Mirror.DisablePixelLights {
		t.Error("expected default disable_pixel_lights to survive")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
mirror:
  texture_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/mirror.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero texture size", func(c *Config) { c.Mirror.TextureSize = 0 }, "texture_size"},
		{"negative texture size", func(c *Config) { c.Mirror.TextureSize = -64 }, "texture_size"},
		{"layer too high", func(c *Config) { c.Mirror.Layer = 32 }, "mirror.layer"},
		{"negative layer", func(c *Config) { c.Mirror.Layer = -1 }, "mirror.layer"},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative pixel lights", func(c *Config) { c.Scene.PixelLightCount = -1 }, "pixel_light_count"},
		{"huge texture size", func(c *Config) { c.Mirror.TextureSize = MaxTextureSize + 1 }, "texture_size"},
		{"unknown capture format", func(c *Config) { c.Capture.Format = "tga" }, "capture.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "mirror.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find mirror.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "texture size flag",
			setup: func() { *flagTextureSize = 2048 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mirror.TextureSize != 2048 {
					t.Errorf("expected texture size 2048, got %d", cfg.Mirror.TextureSize)
				}
			},
			teardown: func() { *flagTextureSize = 0 },
		},
		{
			name:  "clip offset flag",
			setup: func() { *flagClipOffset = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mirror.ClipPlaneOffset != 0 {
					t.Errorf("expected clip offset 0, got %f", cfg.Mirror.ClipPlaneOffset)
				}
			},
			teardown: func() { *flagClipOffset = -1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mirror.yaml")

	yamlContent := `
mirror:
  texture_size: 512
  clip_plane_offset: 0.1
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagTextureSize = 1024
	defer func() {
		*flagConfig = ""
		*flagTextureSize = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Texture size comes from the flag, not the file
	if cfg.Mirror.TextureSize != 1024 {
		t.Errorf("expected texture size 1024 from flag, got %d", cfg.Mirror.TextureSize)
	}
	// Clip offset comes from the file since no flag overrides it
	if cfg.Mirror.ClipPlaneOffset != 0.1 {
		t.Errorf("expected clip offset 0.1 from file, got %f", cfg.Mirror.ClipPlaneOffset)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mirror.yaml")

	if err := os.WriteFile(configPath, []byte("mirror:\n  texture_size: -8\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject a negative texture size")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mirror.yaml")

	cfg := Default()
	cfg.Mirror.TextureSize = 768
	cfg.Mirror.Layer = 12
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Mirror.TextureSize != 768 || loaded.Mirror.Layer != 12 {
		t.Errorf("reloaded mirror config = %+v", loaded.Mirror)
	}
}
