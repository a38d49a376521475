package mirror

// The helpers below change global render state and return a function that
// puts the previous value back. Callers defer the returned function so the
// state is restored on every exit path.

// invertCulling flips the host's face winding convention.
func invertCulling(h Host) (restore func()) {
	old := h.InvertCulling()
	h.SetInvertCulling(!old)
	return func() {
		h.SetInvertCulling(old)
	}
}

// overridePixelLights limits the number of per-pixel lights.
func overridePixelLights(h Host, count int) (restore func()) {
	old := h.PixelLightCount()
	h.SetPixelLightCount(count)
	return func() {
		h.SetPixelLightCount(old)
	}
}
