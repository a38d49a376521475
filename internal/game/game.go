// Package game implements the mirror demo's main loop.
package game

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/config"
	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/engine/debug"
	"github.com/Faultbox/midgard-mirror/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-mirror/internal/engine/glhost"
	"github.com/Faultbox/midgard-mirror/internal/engine/input"
	"github.com/Faultbox/midgard-mirror/internal/engine/window"
	"github.com/Faultbox/midgard-mirror/internal/game/world"
	"github.com/Faultbox/midgard-mirror/internal/logger"
)

// Game is the demo instance.
type Game struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *glhost.Renderer
	input    *input.Input
	world    *world.World
	viewer   *camera.Camera
	orbit    *camera.OrbitCamera
	capture  *debug.Capture
}

// New creates the window, renderer and world.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{cfg: cfg}

	var err error
	g.window, err = window.New(window.Config{
		Title:      "Midgard Mirror",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL function pointers need the context created by the window
	if err := gl.Init(); err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to init OpenGL: %w", err)
	}

	g.renderer, err = glhost.New(cfg.Scene.PixelLightCount)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	w, h := g.window.DrawableSize()
	g.renderer.SetViewport(w, h)

	g.world = world.New(cfg, g.renderer)
	g.world.Attach(g.renderer)

	g.viewer = world.NewViewer()
	g.orbit = camera.NewOrbitCamera()
	g.orbit.Center.Y = 1
	g.input = input.New()

	format, err := debug.ParseFormat(cfg.Capture.Format)
	if err != nil {
		format = debug.FormatPNG
	}
	g.capture = debug.NewCapture(cfg.Capture.Dir, "reflection", format)

	logger.Info("demo initialized",
		zap.Int32("width", w),
		zap.Int32("height", h),
		zap.Int32("texture_size", g.world.TextureSize()))
	logger.Info("controls: drag to orbit, wheel to zoom, T texture size, M mirrors, L pixel lights, F12 capture, Esc quit")

	return g, nil
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	start := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for g.running {
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		g.world.Animate(time.Since(start).Seconds())
		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.window.SetTitle(fmt.Sprintf("Midgard Mirror - %d fps - %dpx - mirrors %s",
				frameCount, g.world.TextureSize(), onOff(g.world.MirrorsEnabled())))
			stats := g.renderer.Stats()
			logger.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Int("drawn", stats.Drawn),
				zap.Int("culled", stats.Culled))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, e := range g.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			w, h := g.window.DrawableSize()
			g.renderer.SetViewport(w, h)
		case input.EventMouseMove:
			if g.input.IsButtonDown(sdl.BUTTON_LEFT) {
				g.orbit.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}
		case input.EventMouseWheel:
			g.orbit.HandleZoom(e.Wheel)
		case input.EventKeyDown:
			g.handleKey(e.Key)
		}
	}
}

func (g *Game) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		g.running = false
	case sdl.SCANCODE_T:
		g.world.SetTextureSize(world.NextTextureSize(g.world.TextureSize()))
	case sdl.SCANCODE_M:
		g.world.SetMirrorsEnabled(!g.world.MirrorsEnabled())
	case sdl.SCANCODE_L:
		disable := !g.world.Mirrors[0].Surface.Settings.DisablePixelLights
		g.world.SetDisablePixelLights(disable)
		logger.Info("reflection pixel lights", zap.Bool("disabled", disable))
	case sdl.SCANCODE_F12:
		g.captureReflections()
	}
}

func (g *Game) render() {
	w, h := g.window.DrawableSize()
	if h > 0 {
		g.viewer.Aspect = float32(w) / float32(h)
	}
	g.orbit.Apply(g.viewer)

	g.world.RenderReflections(g.viewer)
	if err := g.renderer.Render(g.viewer); err != nil {
		logger.Error("render failed", zap.Error(err))
	}
}

func (g *Game) captureReflections() {
	for _, m := range g.world.Mirrors {
		fb, ok := m.Surface.Pool().Target().(*framebuffer.Framebuffer)
		if !ok {
			continue
		}
		path, err := g.capture.SaveTarget(m.Surface.Pool().TargetName(), fb)
		if err != nil {
			logger.Warn("capture failed", zap.String("mirror", m.Surface.Name), zap.Error(err))
			continue
		}
		logger.Info("reflection captured", zap.String("mirror", m.Surface.Name), zap.String("path", path))
	}
}

// Close releases the world, renderer and window.
func (g *Game) Close() {
	logger.Debug("closing demo")

	if g.world != nil {
		g.world.Close()
	}
	if g.renderer != nil {
		g.renderer.Destroy()
	}
	if g.window != nil {
		g.window.Close()
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
