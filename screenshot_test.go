package boneview

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"focused", "focused"},
		{"skull focus", "skull_focus"},
		{"a/b\\c", "a_b_c"},
		{"v1.2-final", "v1.2-final"},
		{"  ", "unlabeled"},
		{"", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 200, // half-transparent-ish
		255, 255, 255, 255, // opaque
		0, 0, 0, 0, // clear
	}
	img := unpremultiply(pixels, 3, 1)

	if got := img.Pix[0:4]; got[0] != 127 || got[1] != 63 || got[2] != 0 || got[3] != 200 {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.Pix[4:8]; got[0] != 255 || got[3] != 255 {
		t.Errorf("pixel 1 = %v", got)
	}
	if got := img.Pix[8:12]; got[0] != 0 || got[3] != 0 {
		t.Errorf("pixel 2 = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	img := unpremultiply([]byte{10, 20, 30, 255}, 1, 1)
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	img := unpremultiply([]byte{0, 0, 0, 255}, 1, 1)
	if err := writePNG(filepath.Join(t.TempDir(), "missing", "shot.png"), img); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestScreenshotQueue(t *testing.T) {
	v := newTestViewer(t)
	v.Screenshot("one")
	v.Screenshot("two")
	if len(v.screenshotQueue) != 2 || v.screenshotQueue[1] != "two" {
		t.Errorf("queue = %v", v.screenshotQueue)
	}
}
