package main

import (
	"fmt"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/engine/debug"
	"github.com/Faultbox/midgard-mirror/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-mirror/internal/logger"
)

// captureAll writes every mirror's reflection target to the capture dir.
func (app *App) captureAll() {
	saved := 0
	for _, m := range app.world.Mirrors {
		fb, ok := m.Surface.Pool().Target().(*framebuffer.Framebuffer)
		if !ok {
			continue
		}
		path, err := app.capture.SaveTarget(m.Surface.Pool().TargetName(), fb)
		if err != nil {
			logger.Warn("capture failed", zap.String("mirror", m.Surface.Name), zap.Error(err))
			app.showStatus(fmt.Sprintf("Capture failed: %v", err))
			return
		}
		logger.Info("reflection captured", zap.String("mirror", m.Surface.Name), zap.String("path", path))
		saved++
	}
	app.showStatus(fmt.Sprintf("Captured %d reflection(s)", saved))
}

// openSaveDialog asks for a file to save the first mirror's reflection to.
func (app *App) openSaveDialog() {
	// Native dialogs block; the result is consumed on the render thread
	go func() {
		filename, err := dialog.File().
			Filter("PNG image", "png").
			Filter("BMP image", "bmp").
			Title("Save Reflection").
			Save()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case app.pendingSave <- filename:
		default:
		}
	}()
}

func (app *App) processPendingSave() {
	var path string
	select {
	case path = <-app.pendingSave:
	default:
		return
	}

	if len(app.world.Mirrors) == 0 {
		return
	}
	fb, ok := app.world.Mirrors[0].Surface.Pool().Target().(*framebuffer.Framebuffer)
	if !ok {
		app.showStatus("No reflection to save")
		return
	}
	w, h := fb.Size()
	img, err := debug.FlipRows(fb.ReadPixels(), int(w), int(h))
	if err == nil {
		err = debug.SaveImageTo(path, img)
	}
	if err != nil {
		logger.Warn("saving reflection failed", zap.String("path", path), zap.Error(err))
		app.showStatus(fmt.Sprintf("Save failed: %v", err))
		return
	}
	app.showStatus("Saved " + path)
}

// saveSettings writes the current UI settings to the user config file.
func (app *App) saveSettings() {
	app.cfg.Mirror.ClipPlaneOffset = app.clipOffset
	app.cfg.Mirror.DisablePixelLights = app.disablePixelLights
	app.cfg.Mirror.TextureSize = int(app.world.TextureSize())
	app.cfg.Scene.PixelLightCount = int(app.pixelLights)

	if err := app.cfg.Save(); err != nil {
		logger.Warn("saving settings failed", zap.Error(err))
		app.showStatus(fmt.Sprintf("Save failed: %v", err))
		return
	}
	app.showStatus("Settings saved")
}
