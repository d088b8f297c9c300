package boneview

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultFocusEpsilon is the distance at which a camera focus tween is
// considered converged.
const DefaultFocusEpsilon = 0.05

// CameraTween moves a camera's position and look-at point together along
// one eased progress curve. Create one with TweenCamera and call Update(dt)
// each frame. When both points are within Epsilon of their targets, or the
// tween's duration elapses, the camera is snapped exactly onto the target
// and Done is set.
//
// There is no global animation manager; the owner calls Update itself.
type CameraTween struct {
	fromPos, fromLook r3.Vec
	toPos, toLook     r3.Vec
	progress          *gween.Tween
	target            *Camera

	// Epsilon is the convergence distance. Zero disables the early stop, so
	// the tween runs its full duration.
	Epsilon float64
	Done    bool
}

// TweenCamera creates a CameraTween that moves cam from its current pose to
// (toPos, toLook) over duration seconds using the easing function.
func TweenCamera(cam *Camera, toPos, toLook r3.Vec, duration float32, fn ease.TweenFunc) *CameraTween {
	if fn == nil {
		fn = ease.InOutCubic
	}
	t := &CameraTween{
		fromPos:  cam.Position,
		fromLook: cam.Target,
		toPos:    toPos,
		toLook:   toLook,
		target:   cam,
		Epsilon:  DefaultFocusEpsilon,
	}
	if duration > 0 {
		t.progress = gween.New(0, 1, duration, fn)
	}
	return t
}

// Update advances the tween by dt seconds and writes the interpolated pose to
// the camera. Calling Update after Done is a no-op.
func (t *CameraTween) Update(dt float32) {
	if t.Done {
		return
	}
	if t.progress == nil {
		t.finish()
		return
	}

	p, finished := t.progress.Update(dt)
	k := float64(p)
	t.target.Position = lerpVec(t.fromPos, t.toPos, k)
	t.target.Target = lerpVec(t.fromLook, t.toLook, k)

	if finished || t.converged() {
		t.finish()
	}
}

// converged reports whether both camera points are within Epsilon of the
// target pose.
func (t *CameraTween) converged() bool {
	if t.Epsilon <= 0 {
		return false
	}
	return r3.Norm(r3.Sub(t.target.Position, t.toPos)) < t.Epsilon &&
		r3.Norm(r3.Sub(t.target.Target, t.toLook)) < t.Epsilon
}

func (t *CameraTween) finish() {
	t.target.Position = t.toPos
	t.target.Target = t.toLook
	t.Done = true
}

// Goal returns the target position and look-at point.
func (t *CameraTween) Goal() (pos, look r3.Vec) {
	return t.toPos, t.toLook
}

// RotationTween animates a model's RotationY toward a target angle.
type RotationTween struct {
	angle  *gween.Tween
	target *Model
	to     float64
	Done   bool
}

// TweenRootRotation creates a RotationTween that turns m to the given angle in
// radians over duration seconds. The shorter way round is taken.
func TweenRootRotation(m *Model, to float64, duration float32, fn ease.TweenFunc) *RotationTween {
	if fn == nil {
		fn = ease.InOutCubic
	}
	from := m.RotationY
	to = from + shortestAngle(from, to)
	t := &RotationTween{target: m, to: to}
	if duration > 0 && from != to {
		t.angle = gween.New(float32(from), float32(to), duration, fn)
	}
	return t
}

// Goal returns the angle the model will have when the tween completes.
func (t *RotationTween) Goal() float64 {
	return t.to
}

// Update advances the tween by dt seconds and writes the angle to the model.
func (t *RotationTween) Update(dt float32) {
	if t.Done {
		return
	}
	if t.angle == nil {
		t.target.RotationY = t.to
		t.Done = true
		return
	}
	v, finished := t.angle.Update(dt)
	if finished {
		t.target.RotationY = t.to
		t.Done = true
		return
	}
	t.target.RotationY = float64(v)
}

// shortestAngle returns the signed difference to-from wrapped to (-pi, pi].
func shortestAngle(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
