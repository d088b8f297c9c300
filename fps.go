package boneview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows the current FPS and TPS in the top-left corner. The text
// is refreshed every half second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

func (f *fpsOverlay) update(dt float64) {
	f.elapsed += dt
	if f.text != "" && f.elapsed < 0.5 {
		return
	}
	f.elapsed = 0
	f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (f *fpsOverlay) draw(dst *ebiten.Image) {
	if f.img == nil {
		// 100x32 fits two lines of the debug font.
		f.img = ebiten.NewImage(100, 32)
	}
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, f.text)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(10, 10)
	dst.DrawImage(f.img, &op)
}
