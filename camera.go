package boneview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default camera parameters.
const (
	DefaultFOV  = 45.0 // vertical, degrees
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// DefaultCameraPosition is where a new camera sits, looking at the origin.
var DefaultCameraPosition = r3.Vec{X: 0, Y: 120, Z: 350}

// cameraState is the set of fields the cached matrices depend on.
type cameraState struct {
	position, target, up r3.Vec
	fov, near, far       float64
	viewport             Rect
}

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	// Position is the eye position in world space.
	Position r3.Vec
	// Target is the look-at point. Orbit controls rotate around it.
	Target r3.Vec
	// Up is the world up direction, normally +Y.
	Up r3.Vec
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Near and Far are the clip plane distances.
	Near, Far float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	cached     cameraState
	cacheValid bool
	view       mgl64.Mat4
	proj       mgl64.Mat4
	viewProj   mgl64.Mat4
	invViewPrj mgl64.Mat4
	eye        r3.Vec
	// back is the last usable unit vector from Target to Position.
	back r3.Vec
}

// NewCamera creates a camera with default projection parameters at
// DefaultCameraPosition, looking at the origin.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Position: DefaultCameraPosition,
		Up:       r3.Vec{Y: 1},
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Viewport: viewport,
	}
}

// LookAt points the camera at p.
func (c *Camera) LookAt(p r3.Vec) {
	c.Target = p
}

// Aspect returns the viewport width/height ratio, or 1 for an empty viewport.
func (c *Camera) Aspect() float64 {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// computeMatrices recomputes the cached matrices if any input changed.
func (c *Camera) computeMatrices() {
	st := cameraState{
		position: c.Position, target: c.Target, up: c.Up,
		fov: c.FOV, near: c.Near, far: c.Far,
		viewport: c.Viewport,
	}
	if c.cacheValid && st == c.cached {
		return
	}
	c.cached = st
	c.cacheValid = true

	eye, up := c.viewBasis()
	c.eye = eye
	c.view = mgl64.LookAtV(toMgl(eye), toMgl(c.Target), toMgl(up))
	c.proj = mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
	c.viewProj = c.proj.Mul4(c.view)
	c.invViewPrj = c.viewProj.Inv()
}

// viewBasis returns the eye and up vectors for the view matrix. An eye on
// Target is pushed back along the last view direction, and an up vector
// parallel to the view direction is swapped for another axis.
func (c *Camera) viewBasis() (eye, up r3.Vec) {
	const eps = 1e-9
	eye = c.Position
	d := r3.Sub(eye, c.Target)
	if r3.Norm(d) < eps {
		back := c.back
		if back == (r3.Vec{}) {
			back = r3.Vec{Z: 1}
		}
		eye = r3.Add(c.Target, r3.Scale(degenerateEyeNudge, back))
		d = back
	}
	dir := r3.Unit(d)
	c.back = dir

	up = c.Up
	if r3.Norm(up) < eps {
		up = r3.Vec{Y: 1}
	}
	if r3.Norm(r3.Cross(dir, r3.Unit(up))) < 1e-6 {
		up = r3.Vec{Z: 1}
		if math.Abs(dir.Z) > 0.9 {
			up = r3.Vec{Y: 1}
		}
	}
	return eye, up
}

// degenerateEyeNudge is how far an eye sitting on its target is moved back.
const degenerateEyeNudge = 1e-3

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	c.computeMatrices()
	return c.view
}

// ProjectionMatrix returns the view-to-clip transform.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	c.computeMatrices()
	return c.proj
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	c.computeMatrices()
	return c.viewProj
}

// ScreenToNDC converts screen coordinates to normalized device coordinates
// relative to the viewport: x and y in [-1, 1], y up.
func (c *Camera) ScreenToNDC(sx, sy float64) (nx, ny float64) {
	vp := c.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0, 0
	}
	nx = (sx-vp.X)/vp.Width*2 - 1
	ny = -((sy-vp.Y)/vp.Height)*2 + 1
	return nx, ny
}

// NDCToScreen is the inverse of ScreenToNDC.
func (c *Camera) NDCToScreen(nx, ny float64) (sx, sy float64) {
	vp := c.Viewport
	sx = vp.X + (nx+1)/2*vp.Width
	sy = vp.Y + (1-ny)/2*vp.Height
	return sx, sy
}

// RayFromNDC returns the ray from the eye through the given NDC point.
func (c *Camera) RayFromNDC(nx, ny float64) Ray {
	c.computeMatrices()
	p := mgl64.TransformCoordinate(mgl64.Vec3{nx, ny, 0.5}, c.invViewPrj)
	dir := r3.Sub(fromMgl(p), c.eye)
	return Ray{Origin: c.eye, Dir: r3.Unit(dir)}
}

// ScreenRay returns the picking ray through screen point (sx, sy).
func (c *Camera) ScreenRay(sx, sy float64) Ray {
	nx, ny := c.ScreenToNDC(sx, sy)
	return c.RayFromNDC(nx, ny)
}

// WorldToScreen projects p to screen coordinates. depth is the clip-space w
// (distance along the view axis). ok is false when p is behind the near
// plane.
func (c *Camera) WorldToScreen(p r3.Vec) (sx, sy, depth float64, ok bool) {
	c.computeMatrices()
	clip := c.viewProj.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	w := clip[3]
	if w < c.Near {
		return 0, 0, w, false
	}
	sx, sy = c.NDCToScreen(clip[0]/w, clip[1]/w)
	return sx, sy, w, true
}

// Distance returns the distance from the eye to the look-at point.
func (c *Camera) Distance() float64 {
	return r3.Norm(r3.Sub(c.Position, c.Target))
}
