package glhost

import (
	"testing"

	"github.com/Faultbox/midgard-mirror/internal/mirror"
)

type texTarget struct {
	tex uint32
}

func (t *texTarget) Size() (int32, int32) { return 64, 64 }
func (t *texTarget) ColorTexture() uint32 { return t.tex }

type plainTarget struct{}

func (plainTarget) Size() (int32, int32) { return 1, 1 }

func TestMirrorMaterialSlots(t *testing.T) {
	m := NewMirrorMaterial()
	target := &texTarget{tex: 7}

	if got := m.glTexture(mirror.ReflectionTextureSlot); got != 0 {
		t.Errorf("unbound slot texture = %d, want 0", got)
	}

	m.SetTexture(mirror.ReflectionTextureSlot, target)
	if got, ok := m.Texture(mirror.ReflectionTextureSlot); !ok || got != target {
		t.Errorf("Texture() = %v, %v; want bound target", got, ok)
	}
	if got := m.glTexture(mirror.ReflectionTextureSlot); got != 7 {
		t.Errorf("glTexture() = %d, want 7", got)
	}
	if !m.samples(target) {
		t.Error("material should sample its bound target")
	}
	if m.samples(&texTarget{tex: 7}) || m.samples(nil) {
		t.Error("material should not sample unrelated targets")
	}

	m.SetTexture(mirror.ReflectionTextureSlot, nil)
	if _, ok := m.Texture(mirror.ReflectionTextureSlot); ok {
		t.Error("nil SetTexture should clear the slot")
	}
}

func TestMirrorMaterialNonGLTarget(t *testing.T) {
	m := NewMirrorMaterial()
	m.SetTexture(mirror.ReflectionTextureSlot, plainTarget{})
	if got := m.glTexture(mirror.ReflectionTextureSlot); got != 0 {
		t.Errorf("glTexture() = %d, want 0 for targets without a GL texture", got)
	}
}

func TestSlotUniforms(t *testing.T) {
	if slotUniforms[mirror.ReflectionTextureSlot] != "uReflectionTex" {
		t.Errorf("reflection slot maps to %q", slotUniforms[mirror.ReflectionTextureSlot])
	}
}
