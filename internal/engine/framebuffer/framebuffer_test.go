package framebuffer

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func TestDepthFormat(t *testing.T) {
	tests := []struct {
		bits int32
		want uint32
	}{
		{16, gl.DEPTH_COMPONENT16},
		{24, gl.DEPTH_COMPONENT24},
		{32, gl.DEPTH_COMPONENT32F},
		{0, gl.DEPTH_COMPONENT24},
		{8, gl.DEPTH_COMPONENT24},
	}
	for _, tt := range tests {
		if got := DepthFormat(tt.bits); got != tt.want {
			t.Errorf("DepthFormat(%d) = %#x, want %#x", tt.bits, got, tt.want)
		}
	}
}

func TestDestroyZeroValue(t *testing.T) {
	// nothing allocated, so no GL calls are made
	var fb Framebuffer
	fb.Destroy()
	fb.Destroy()
	if w, h := fb.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %dx%d, want 0x0", w, h)
	}
}
