package glhost

import (
	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
)

// slotUniforms maps material texture slots to sampler uniforms.
var slotUniforms = map[string]string{
	mirror.ReflectionTextureSlot: "uReflectionTex",
}

// textureSource is implemented by targets backed by a GL texture.
type textureSource interface {
	ColorTexture() uint32
}

// MirrorMaterial samples a reflection texture in screen space and blends it
// with a tint.
type MirrorMaterial struct {
	Tint     [3]float32
	Strength float32 // 0 shows only the tint, 1 only the reflection

	textures map[string]camera.Target
}

// NewMirrorMaterial creates a material with a neutral tint.
func NewMirrorMaterial() *MirrorMaterial {
	return &MirrorMaterial{
		Tint:     [3]float32{0.85, 0.9, 0.95},
		Strength: 0.9,
		textures: make(map[string]camera.Target),
	}
}

// SetTexture binds t to slot. A nil target clears the slot.
func (m *MirrorMaterial) SetTexture(slot string, t camera.Target) {
	if t == nil {
		delete(m.textures, slot)
		return
	}
	m.textures[slot] = t
}

// Texture returns the target bound to slot.
func (m *MirrorMaterial) Texture(slot string) (camera.Target, bool) {
	t, ok := m.textures[slot]
	return t, ok
}

// glTexture returns the GL texture bound to slot, or 0.
func (m *MirrorMaterial) glTexture(slot string) uint32 {
	t, ok := m.textures[slot]
	if !ok {
		return 0
	}
	if src, ok := t.(textureSource); ok {
		return src.ColorTexture()
	}
	return 0
}

// samples reports whether any slot is bound to target.
func (m *MirrorMaterial) samples(target camera.Target) bool {
	if target == nil {
		return false
	}
	for _, t := range m.textures {
		if t == target {
			return true
		}
	}
	return false
}
