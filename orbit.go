package boneview

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Orbit defaults.
const (
	DefaultDampingFactor = 0.05
	DefaultMinDistance   = 1.0
	DefaultMaxDistance   = 900.0

	orbitEpsilon = 1e-6
)

// OrbitControls rotates and dollies a camera around its Target. Input
// accumulates pending deltas; Update applies a DampingFactor share of them
// each frame, so motion eases out after the pointer stops.
type OrbitControls struct {
	camera *Camera

	// Enabled gates both input and Update. Disabling discards pending motion.
	Enabled bool

	DampingFactor float64 // share of pending motion applied per Update; 0 applies all at once
	RotateSpeed   float64
	ZoomSpeed     float64

	MinDistance, MaxDistance float64
	MinPolarAngle            float64 // radians from +Y
	MaxPolarAngle            float64

	thetaDelta float64
	phiDelta   float64
	scale      float64

	handles []CallbackHandle
}

// NewOrbitControls creates enabled, damped orbit controls for cam.
func NewOrbitControls(cam *Camera) *OrbitControls {
	return &OrbitControls{
		camera:        cam,
		Enabled:       true,
		DampingFactor: DefaultDampingFactor,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   DefaultMinDistance,
		MaxDistance:   DefaultMaxDistance,
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		scale:         1,
	}
}

// Rotate queues an orbit of dTheta radians about +Y and dPhi radians of
// polar angle.
func (o *OrbitControls) Rotate(dTheta, dPhi float64) {
	if !o.Enabled {
		return
	}
	o.thetaDelta += dTheta
	o.phiDelta += dPhi
}

// Dolly queues a distance change. factor < 1 moves toward the target.
func (o *OrbitControls) Dolly(factor float64) {
	if !o.Enabled || factor <= 0 {
		return
	}
	o.scale *= factor
}

// Stop discards any pending motion.
func (o *OrbitControls) Stop() {
	o.thetaDelta = 0
	o.phiDelta = 0
	o.scale = 1
}

// Pending reports whether queued motion remains to be applied.
func (o *OrbitControls) Pending() bool {
	return math.Abs(o.thetaDelta) > orbitEpsilon ||
		math.Abs(o.phiDelta) > orbitEpsilon ||
		o.scale != 1
}

// Update applies pending motion to the camera and reports whether the camera
// moved. With nothing pending the camera is left untouched.
func (o *OrbitControls) Update() bool {
	if !o.Enabled {
		o.Stop()
		return false
	}
	if !o.Pending() {
		o.thetaDelta, o.phiDelta = 0, 0
		return false
	}

	cam := o.camera
	offset := r3.Sub(cam.Position, cam.Target)
	radius := r3.Norm(offset)
	if radius == 0 {
		o.Stop()
		return false
	}
	theta := math.Atan2(offset.X, offset.Z)
	phi := math.Acos(math.Max(-1, math.Min(1, offset.Y/radius)))

	k := o.DampingFactor
	if k <= 0 || k > 1 {
		k = 1
	}
	theta += o.thetaDelta * k
	phi += o.phiDelta * k

	const polarEps = 1e-6
	phi = math.Max(o.MinPolarAngle, math.Min(o.MaxPolarAngle, phi))
	phi = math.Max(polarEps, math.Min(math.Pi-polarEps, phi))

	radius *= o.scale
	radius = math.Max(o.MinDistance, math.Min(o.MaxDistance, radius))

	sinPhi := math.Sin(phi)
	cam.Position = r3.Add(cam.Target, r3.Vec{
		X: radius * sinPhi * math.Sin(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Cos(theta),
	})

	o.thetaDelta *= 1 - k
	o.phiDelta *= 1 - k
	o.scale = 1
	return true
}

// Attach registers drag and wheel handlers on s. Dragging across the full
// viewport height orbits one full turn.
func (o *OrbitControls) Attach(s *Surface) {
	o.Detach()
	o.handles = append(o.handles,
		s.OnDrag(func(ctx DragContext) {
			h := o.camera.Viewport.Height
			if h <= 0 {
				return
			}
			o.Rotate(-2*math.Pi*ctx.DeltaX/h*o.RotateSpeed, -2*math.Pi*ctx.DeltaY/h*o.RotateSpeed)
		}),
		s.OnWheel(func(ctx WheelContext) {
			if ctx.DeltaY == 0 {
				return
			}
			step := math.Pow(0.95, o.ZoomSpeed)
			if ctx.DeltaY > 0 {
				o.Dolly(step)
			} else {
				o.Dolly(1 / step)
			}
		}),
	)
}

// Detach removes the handlers added by Attach.
func (o *OrbitControls) Detach() {
	for _, h := range o.handles {
		h.Remove()
	}
	o.handles = o.handles[:0]
}
