package boneview

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTweenCameraReachesTarget(t *testing.T) {
	cam := newAxisCamera()
	toPos := r3.Vec{X: 10, Y: 20, Z: 30}
	toLook := r3.Vec{X: 1, Y: 2, Z: 3}
	tw := TweenCamera(cam, toPos, toLook, 1, ease.Linear)
	tw.Epsilon = 0

	tw.Update(0.5)
	mid := r3.Vec{X: 5, Y: 10, Z: 65}
	if !vecNear(cam.Position, mid, 1e-4) {
		t.Errorf("halfway Position = %v, want %v", cam.Position, mid)
	}
	if !vecNear(cam.Target, r3.Vec{X: 0.5, Y: 1, Z: 1.5}, 1e-4) {
		t.Errorf("halfway Target = %v", cam.Target)
	}
	if tw.Done {
		t.Fatal("done halfway")
	}

	tw.Update(0.6)
	if !tw.Done {
		t.Fatal("not done after the full duration")
	}
	if cam.Position != toPos || cam.Target != toLook {
		t.Errorf("final pose = %v -> %v, want exact target", cam.Position, cam.Target)
	}

	// Updates after completion leave the camera alone.
	cam.Position = r3.Vec{}
	tw.Update(1)
	if cam.Position != (r3.Vec{}) {
		t.Error("Update after Done moved the camera")
	}
}

func TestTweenCameraConvergesEarly(t *testing.T) {
	cam := newAxisCamera()
	toPos := r3.Vec{Z: 99}
	tw := TweenCamera(cam, toPos, r3.Vec{}, 10, ease.Linear)
	tw.Epsilon = 0.5

	tw.Update(6) // 0.4 units left
	if !tw.Done {
		t.Fatal("tween within epsilon did not finish")
	}
	if cam.Position != toPos {
		t.Errorf("Position = %v, want snapped to %v", cam.Position, toPos)
	}
}

func TestTweenCameraZeroDuration(t *testing.T) {
	cam := newAxisCamera()
	tw := TweenCamera(cam, r3.Vec{X: 5}, r3.Vec{X: 1}, 0, nil)
	if cam.Position != (r3.Vec{Z: 100}) {
		t.Error("TweenCamera moved the camera before Update")
	}
	tw.Update(0)
	if !tw.Done || cam.Position != (r3.Vec{X: 5}) || cam.Target != (r3.Vec{X: 1}) {
		t.Errorf("zero-duration tween: done=%v pose=%v -> %v", tw.Done, cam.Position, cam.Target)
	}
	if pos, look := tw.Goal(); pos != (r3.Vec{X: 5}) || look != (r3.Vec{X: 1}) {
		t.Errorf("Goal = %v, %v", pos, look)
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	camA, camB := newAxisCamera(), newAxisCamera()
	a := TweenCamera(camA, r3.Vec{}, r3.Vec{}, 1, ease.Linear)
	b := TweenCamera(camB, r3.Vec{}, r3.Vec{}, 1, ease.InOutCubic)
	a.Epsilon, b.Epsilon = 0, 0

	a.Update(0.25)
	b.Update(0.25)
	if approxEqual(camA.Position.Z, camB.Position.Z, 1e-3) {
		t.Errorf("Linear and InOutCubic agree at t=0.25: %v", camA.Position.Z)
	}
}

func TestShortestAngle(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"zero", 0, 0, 0},
		{"quarter", 0, math.Pi / 2, math.Pi / 2},
		{"three quarters wraps", 0, 3 * math.Pi / 2, -math.Pi / 2},
		{"negative wraps", 0, -3 * math.Pi / 2, math.Pi / 2},
		{"half turn", 0, math.Pi, math.Pi},
		{"full turn", math.Pi, 3 * math.Pi, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortestAngle(tt.from, tt.to); !approxEqual(got, tt.want, 1e-12) {
				t.Errorf("shortestAngle(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTweenRootRotation(t *testing.T) {
	m := &Model{Scale: 1}
	tw := TweenRootRotation(m, 3*math.Pi/2, 1, ease.Linear)
	if !approxEqual(tw.Goal(), -math.Pi/2, 1e-12) {
		t.Errorf("Goal = %v, want -pi/2", tw.Goal())
	}

	tw.Update(0.5)
	if !approxEqual(m.RotationY, -math.Pi/4, 1e-6) {
		t.Errorf("halfway RotationY = %v, want -pi/4", m.RotationY)
	}
	tw.Update(0.5)
	if !tw.Done || m.RotationY != tw.Goal() {
		t.Errorf("done=%v RotationY=%v, want exact goal", tw.Done, m.RotationY)
	}
}

func TestTweenRootRotationAlreadyThere(t *testing.T) {
	m := &Model{Scale: 1, RotationY: 1}
	tw := TweenRootRotation(m, 1, 1, nil)
	tw.Update(0.01)
	if !tw.Done || m.RotationY != 1 {
		t.Errorf("done=%v RotationY=%v", tw.Done, m.RotationY)
	}
}
