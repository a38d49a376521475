package mirror

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/logger"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// TargetFactory allocates a square render target.
type TargetFactory func(size, depthBits int32) (Target, error)

// Pool owns the auxiliary cameras of one surface, keyed by viewing camera,
// and the target they all render into. The cameras render one after
// another, so sharing the target is safe.
type Pool struct {
	owner     uint32
	newTarget TargetFactory

	cameras    map[camera.ID]*camera.Camera
	target     Target
	targetSize int32
}

// NewPool creates an empty pool for the surface with id owner.
func NewPool(owner uint32, newTarget TargetFactory) *Pool {
	return &Pool{
		owner:     owner,
		newTarget: newTarget,
		cameras:   make(map[camera.ID]*camera.Camera),
	}
}

// Acquire returns the auxiliary camera for viewer, creating it on first use.
// A new camera is disabled, placed at origin and does not see excludeLayer.
func (p *Pool) Acquire(viewer *camera.Camera, origin math.Transform, excludeLayer int) *camera.Camera {
	if aux, ok := p.cameras[viewer.ID()]; ok {
		return aux
	}

	aux := camera.New(CameraName(p.owner, viewer.ID()))
	aux.Enabled = false
	aux.Transform = origin
	aux.CullingMask = camera.AllLayers.Without(excludeLayer)
	p.cameras[viewer.ID()] = aux

	logger.Debug("reflection camera created",
		zap.String("target", p.TargetName()),
		zap.Uint32("viewer", uint32(viewer.ID())),
		zap.Uint32("camera", uint32(aux.ID())),
	)
	return aux
}

// TargetName returns the name of the shared reflection target.
func (p *Pool) TargetName() string {
	return fmt.Sprintf("_MirrorReflection%d", p.owner)
}

// CameraName returns the name given to the reflection camera of surface
// owner for viewer.
func CameraName(owner uint32, viewer camera.ID) string {
	return fmt.Sprintf("Mirror Reflection Camera id%d for %d", owner, viewer)
}

// Camera returns the pooled camera for viewer, if any.
func (p *Pool) Camera(viewer camera.ID) (*camera.Camera, bool) {
	aux, ok := p.cameras[viewer]
	return aux, ok
}

// EnsureTarget returns the shared size x size target, with size clamped to
// 1..MaxTargetSize. The current target is
// destroyed and replaced when none exists yet or its size differs.
func (p *Pool) EnsureTarget(size int32) (Target, error) {
	size = min(max(size, 1), MaxTargetSize)
	if p.target != nil && p.targetSize == size {
		return p.target, nil
	}

	if p.target != nil {
		p.target.Destroy()
		p.target = nil
		p.targetSize = 0
	}

	target, err := p.newTarget(size, TargetDepthBits)
	if err != nil {
		return nil, fmt.Errorf("allocating %dx%d reflection target: %w", size, size, err)
	}
	p.target = target
	p.targetSize = size

	logger.Debug("reflection target allocated",
		zap.String("target", p.TargetName()),
		zap.Int32("size", size),
	)
	return target, nil
}

// Target returns the current shared target, or nil.
func (p *Pool) Target() Target {
	return p.target
}

// Len returns the number of pooled cameras.
func (p *Pool) Len() int {
	return len(p.cameras)
}

// ReleaseAll destroys the target and every pooled camera. It is safe to call
// on an empty pool.
func (p *Pool) ReleaseAll() {
	if p.target == nil && len(p.cameras) == 0 {
		return
	}

	if p.target != nil {
		p.target.Destroy()
		p.target = nil
		p.targetSize = 0
	}

	released := len(p.cameras)
	for id, aux := range p.cameras {
		aux.Destroy()
		delete(p.cameras, id)
	}

	logger.Debug("reflection resources released",
		zap.String("target", p.TargetName()),
		zap.Int("cameras", released),
	)
}
