// Mirror Inspector - an interactive tool for tuning planar mirror reflections.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/config"
	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/engine/debug"
	"github.com/Faultbox/midgard-mirror/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-mirror/internal/engine/glhost"
	"github.com/Faultbox/midgard-mirror/internal/game/world"
	"github.com/Faultbox/midgard-mirror/internal/logger"
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(cfg)
	if err != nil {
		logger.Error("failed to start inspector", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}

// App is the inspector state.
type App struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	cfg     *config.Config

	renderer *glhost.Renderer
	world    *world.World
	viewer   *camera.Camera
	orbit    *camera.OrbitCamera

	// Offscreen target the main view is rendered into
	view *framebuffer.Framebuffer

	capture *debug.Capture
	start   time.Time

	// UI state mirrored into surface settings every frame
	clipOffset         float32
	disablePixelLights bool
	mirrorsOn          bool
	pixelLights        int32
	animate            bool
	failedPasses       int

	pendingSave chan string
	lastMouse   imgui.Vec2
	selected    *glhost.Object

	statusMsg  string
	statusTime time.Time
}

// NewApp creates the window, GL resources and demo world.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:                cfg,
		start:              time.Now(),
		clipOffset:         cfg.Mirror.ClipPlaneOffset,
		disablePixelLights: cfg.Mirror.DisablePixelLights,
		mirrorsOn:          true,
		pixelLights:        int32(cfg.Scene.PixelLightCount),
		animate:            true,
		pendingSave:        make(chan string, 1),
	}

	var err error
	app.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("failed to create backend: %w", err)
	}
	app.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	app.backend.CreateWindow("Mirror Inspector", cfg.Window.Width, cfg.Window.Height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to init OpenGL: %w", err)
	}

	app.renderer, err = glhost.New(cfg.Scene.PixelLightCount)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	app.world = world.New(cfg, app.renderer)
	app.world.Attach(app.renderer)
	app.viewer = world.NewViewer()
	app.orbit = camera.NewOrbitCamera()
	app.orbit.Center.Y = 1

	format, err := debug.ParseFormat(cfg.Capture.Format)
	if err != nil {
		format = debug.FormatPNG
	}
	app.capture = debug.NewCapture(cfg.Capture.Dir, "reflection", format)

	return app, nil
}

// Run starts the main loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// Close releases GL resources.
func (app *App) Close() {
	if app.world != nil {
		app.world.Close()
	}
	if app.view != nil {
		app.view.Destroy()
	}
	if app.renderer != nil {
		app.renderer.Destroy()
	}
}

func (app *App) render() {
	app.processPendingSave()

	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		app.captureAll()
	}
	if !imgui.IsAnyItemActive() && imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyM)) {
		app.mirrorsOn = !app.mirrorsOn
	}

	app.applySettings()
	if app.animate {
		app.world.Animate(time.Since(app.start).Seconds())
	}

	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()

	controlsWidth := float32(300)
	targetsWidth := float32(280)
	statusBarHeight := float32(30)
	contentHeight := workSize.Y - statusBarHeight
	viewWidth := workSize.X - controlsWidth - targetsWidth

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(controlsWidth, contentHeight))
	if imgui.BeginV("Mirror", nil, flags) {
		app.renderControls()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+controlsWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(viewWidth, contentHeight))
	if imgui.BeginV("View", nil, flags|imgui.WindowFlagsNoScrollbar) {
		app.renderView()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+controlsWidth+viewWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(targetsWidth, contentHeight))
	if imgui.BeginV("Reflection Targets", nil, flags) {
		app.renderTargets()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	if imgui.BeginV("##StatusBar", nil, flags|imgui.WindowFlagsNoTitleBar|imgui.WindowFlagsNoScrollbar) {
		app.renderStatusBar()
	}
	imgui.End()
}

// applySettings pushes UI state into the world.
func (app *App) applySettings() {
	app.world.SetClipPlaneOffset(app.clipOffset)
	app.world.SetDisablePixelLights(app.disablePixelLights)
	app.world.SetMirrorsEnabled(app.mirrorsOn)
	app.renderer.SetPixelLightCount(int(app.pixelLights))
}

func (app *App) showStatus(msg string) {
	app.statusMsg = msg
	app.statusTime = time.Now()
}
