package software

import (
	"errors"
	"fmt"
	"image"
	"log"

	"golang.org/x/image/draw"

	"github.com/kryonlabs/kryon-meter/meter"
	"github.com/kryonlabs/kryon-meter/render"
)

// ErrUnknownBitmap is returned when a canvas is handed a bitmap from another backend.
var ErrUnknownBitmap = errors.New("software: bitmap was not loaded by this backend")

// Canvas composites bitmaps onto a draw.Image. Stretched copies go through
// Scaler; same-size copies are plain draws.
type Canvas struct {
	dst    draw.Image
	Scaler draw.Scaler
	Op     draw.Op
}

func NewCanvas(dst draw.Image) *Canvas {
	return &Canvas{dst: dst, Scaler: draw.ApproxBiLinear, Op: draw.Over}
}

// Image is the canvas' destination.
func (c *Canvas) Image() draw.Image { return c.dst }

func (c *Canvas) DrawBitmap(b meter.Bitmap, src, dst meter.Rect, tiled bool) {
	if err := c.Draw(b, src, dst, tiled); err != nil {
		log.Printf("ERROR software.Canvas: %v", err)
	}
}

// Draw is DrawBitmap with the error reported instead of logged.
func (c *Canvas) Draw(b meter.Bitmap, src, dst meter.Rect, tiled bool) error {
	bm, ok := b.(*Bitmap)
	if !ok {
		return fmt.Errorf("draw %T: %w", b, ErrUnknownBitmap)
	}
	if !tiled {
		c.copy(bm, src, dst)
		return nil
	}
	for _, p := range render.TileRects(src, dst, bm.Size()) {
		c.copy(bm, p.Src, p.Dst)
	}
	return nil
}

func (c *Canvas) copy(bm *Bitmap, src, dst meter.Rect) {
	if src.Area() == 0 || dst.Area() == 0 {
		return
	}
	origin := bm.img.Bounds().Min
	sr := image.Rect(src.X, src.Y, src.X+src.W, src.Y+src.H).Add(origin)
	dr := image.Rect(dst.X, dst.Y, dst.X+dst.W, dst.Y+dst.H)
	if src.W == dst.W && src.H == dst.H {
		draw.Draw(c.dst, dr, bm.img, sr.Min, c.Op)
		return
	}
	c.Scaler.Scale(c.dst, dr, bm.img, sr, c.Op, nil)
}
