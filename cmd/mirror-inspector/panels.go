package main

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-mirror/internal/engine/lighting"
	"github.com/Faultbox/midgard-mirror/internal/engine/picking"
	"github.com/Faultbox/midgard-mirror/internal/game/world"
	"github.com/Faultbox/midgard-mirror/internal/logger"
)

func (app *App) renderControls() {
	imgui.Text("Reflection")
	imgui.Separator()

	imgui.Checkbox("Mirrors enabled (M)", &app.mirrorsOn)
	imgui.Checkbox("Disable pixel lights", &app.disablePixelLights)

	imgui.Spacing()
	imgui.Text("Clip plane offset:")
	imgui.SetNextItemWidth(-1)
	imgui.SliderFloatV("##ClipOffset", &app.clipOffset, 0, 0.5, "%.3f", imgui.SliderFlagsNone)

	imgui.Spacing()
	imgui.Text(fmt.Sprintf("Texture size: %dpx", app.world.TextureSize()))
	for i, size := range world.TextureSizes {
		if i > 0 {
			imgui.SameLine()
		}
		if imgui.Button(fmt.Sprintf("%d", size)) {
			app.world.SetTextureSize(size)
		}
	}

	imgui.Spacing()
	imgui.Text("Scene")
	imgui.Separator()
	imgui.Text("Pixel lights per object:")
	imgui.SetNextItemWidth(-1)
	imgui.SliderIntV("##PixelLights", &app.pixelLights, 0, lighting.MaxPixelLights, "%d", imgui.SliderFlagsNone)
	imgui.Checkbox("Animate", &app.animate)

	app.renderSelection()

	imgui.Spacing()
	imgui.Text("Host state")
	imgui.Separator()
	stats := app.renderer.Stats()
	imgui.Text(fmt.Sprintf("Pixel light count: %d", app.renderer.PixelLightCount()))
	imgui.Text(fmt.Sprintf("Inverted culling: %v", app.renderer.InvertCulling()))
	imgui.Text(fmt.Sprintf("Drawn: %d  Culled: %d", stats.Drawn, stats.Culled))
	imgui.Text(fmt.Sprintf("Failed passes: %d", app.failedPasses))

	imgui.Spacing()
	imgui.Separator()
	if imgui.ButtonV("Capture reflections (F12)", imgui.NewVec2(-1, 0)) {
		app.captureAll()
	}
	if imgui.ButtonV("Save reflection as...", imgui.NewVec2(-1, 0)) {
		app.openSaveDialog()
	}
	if imgui.ButtonV("Save settings", imgui.NewVec2(-1, 0)) {
		app.saveSettings()
	}
}

func (app *App) renderView() {
	avail := imgui.ContentRegionAvail()
	w, h := int32(avail.X), int32(avail.Y)
	if w < 1 || h < 1 {
		return
	}
	if err := app.ensureView(w, h); err != nil {
		imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), err.Error())
		return
	}

	app.viewer.Aspect = float32(w) / float32(h)
	app.orbit.Apply(app.viewer)
	app.viewer.Target = app.view

	app.failedPasses += app.world.RenderReflections(app.viewer)
	if err := app.renderer.Render(app.viewer); err != nil {
		logger.Error("render failed", zap.Error(err))
	}

	origin := imgui.CursorScreenPos()
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(app.view.ColorTexture()))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(float32(w), float32(h)),
		imgui.NewVec2(0, 1), // UV flipped
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)

	if imgui.IsItemHovered() {
		mousePos := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			app.orbit.HandleDrag(mousePos.X-app.lastMouse.X, mousePos.Y-app.lastMouse.Y)
		}
		app.lastMouse = mousePos

		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			app.orbit.HandleZoom(wheel)
		}

		if imgui.IsMouseClickedBool(imgui.MouseButtonRight) {
			app.pick(mousePos.X-origin.X, mousePos.Y-origin.Y, float32(w), float32(h))
		}
	}
}

// pick selects the object under the given view-local pixel.
func (app *App) pick(x, y, w, h float32) {
	ray := picking.ScreenToRay(x, y, w, h, app.viewer.ViewProjection().Inverse())
	obj, _ := app.world.Scene.Pick(ray)
	app.selected = obj
	if obj != nil {
		logger.Debug("object picked", zap.String("name", obj.Name))
	}
}

func (app *App) renderSelection() {
	imgui.Spacing()
	imgui.Text("Selection (right-click)")
	imgui.Separator()

	obj := app.selected
	if obj == nil {
		imgui.TextDisabled("Nothing selected")
		return
	}

	imgui.Text(obj.Name)
	p := obj.Transform.Position
	imgui.Text(fmt.Sprintf("Position: (%.2f, %.2f, %.2f)", p.X, p.Y, p.Z))
	imgui.Text(fmt.Sprintf("Layer: %d", obj.Layer))
	imgui.Checkbox("Visible", &obj.Visible)

	for _, m := range app.world.Mirrors {
		if m.Object != obj {
			continue
		}
		n := m.Surface.Normal()
		imgui.Text(fmt.Sprintf("Mirror normal: (%.2f, %.2f, %.2f)", n.X, n.Y, n.Z))
		imgui.Text(fmt.Sprintf("Reflection cameras: %d", m.Surface.Pool().Len()))
		imgui.SliderFloatV("Strength", &obj.Mirror.Strength, 0, 1, "%.2f", imgui.SliderFlagsNone)
	}
}

// ensureView (re)creates the main view target when the panel size changes.
func (app *App) ensureView(w, h int32) error {
	if app.view != nil {
		if vw, vh := app.view.Size(); vw == w && vh == h {
			return nil
		}
		app.view.Destroy()
		app.view = nil
	}
	fb, err := framebuffer.New(w, h, 24)
	if err != nil {
		return err
	}
	app.view = fb
	return nil
}

func (app *App) renderTargets() {
	for _, m := range app.world.Mirrors {
		if !imgui.TreeNodeExStrV(m.Surface.Name, imgui.TreeNodeFlagsDefaultOpen) {
			continue
		}

		pool := m.Surface.Pool()
		imgui.Text(fmt.Sprintf("Reflection cameras: %d", pool.Len()))
		normal := m.Surface.Normal()
		imgui.Text(fmt.Sprintf("Normal: (%.2f, %.2f, %.2f)", normal.X, normal.Y, normal.Z))

		fb, ok := pool.Target().(*framebuffer.Framebuffer)
		if !ok {
			imgui.TextDisabled("No target")
			imgui.TreePop()
			continue
		}

		tw, th := fb.Size()
		imgui.Text(fmt.Sprintf("%s: %dx%d", pool.TargetName(), tw, th))

		side := imgui.ContentRegionAvail().X
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(fb.ColorTexture()))
		imgui.ImageWithBgV(
			*texRef,
			imgui.NewVec2(side, side),
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0),
			imgui.NewVec4(0.15, 0.15, 0.15, 1.0),
			imgui.NewVec4(1, 1, 1, 1),
		)
		imgui.TreePop()
	}
}

func (app *App) renderStatusBar() {
	imgui.Text(fmt.Sprintf("%d mirrors | %dpx | %.0f fps",
		len(app.world.Mirrors), app.world.TextureSize(), imgui.CurrentIO().Framerate()))

	if app.statusMsg != "" && time.Since(app.statusTime) < 4*time.Second {
		imgui.SameLine()
		imgui.TextDisabled("| " + app.statusMsg)
	}
}
