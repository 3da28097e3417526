// Package ebiten runs skins in an Ebitengine window. Bitmaps are decoded by
// the software backend and uploaded to GPU images the first time they are
// drawn.
package ebiten

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/kryonlabs/kryon-meter/meter"
	"github.com/kryonlabs/kryon-meter/render"
	"github.com/kryonlabs/kryon-meter/render/software"
	"github.com/kryonlabs/kryon-meter/skin"
)

// Bitmap is a GPU image backed by a decoded software bitmap.
type Bitmap struct {
	src *software.Bitmap
	img *ebiten.Image
}

func (b *Bitmap) Size() meter.Size { return b.src.Size() }

// Loader decodes through a software.Loader and keeps one ebiten.Image per
// decoded bitmap.
type Loader struct {
	decoded *software.Loader
	images  map[string]*Bitmap
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		decoded: software.NewLoader(fsys),
		images:  make(map[string]*Bitmap),
	}
}

func (l *Loader) Load(name string, force bool) (meter.Size, error) {
	return l.decoded.Load(name, force)
}

func (l *Loader) Borrow(name string) (meter.Bitmap, bool) {
	b, ok := l.decoded.Borrow(name)
	if !ok {
		l.drop(name)
		return nil, false
	}
	src := b.(*software.Bitmap)
	if cached, ok := l.images[name]; ok && cached.src == src {
		return cached, true
	}
	l.drop(name)
	bm := &Bitmap{src: src, img: ebiten.NewImageFromImage(src.Image())}
	l.images[name] = bm
	return bm, true
}

func (l *Loader) drop(name string) {
	if bm, ok := l.images[name]; ok {
		bm.img.Deallocate()
		delete(l.images, name)
	}
}

// Purge frees every GPU image and decoded bitmap.
func (l *Loader) Purge() {
	for name := range l.images {
		l.drop(name)
	}
	l.decoded.Purge()
}

// Canvas draws Bitmaps onto an ebiten.Image.
type Canvas struct {
	Target *ebiten.Image
	Filter ebiten.Filter
}

func (c *Canvas) DrawBitmap(b meter.Bitmap, src, dst meter.Rect, tiled bool) {
	bm, ok := b.(*Bitmap)
	if !ok {
		log.Printf("ERROR ebiten.Canvas: bitmap %T was not loaded by the ebiten backend", b)
		return
	}
	if !tiled {
		c.draw(bm, src, dst)
		return
	}
	for _, p := range render.TileRects(src, dst, bm.Size()) {
		c.draw(bm, p.Src, p.Dst)
	}
}

func (c *Canvas) draw(bm *Bitmap, src, dst meter.Rect) {
	if src.Area() == 0 || dst.Area() == 0 {
		return
	}
	sub := bm.img.SubImage(image.Rect(src.X, src.Y, src.X+src.W, src.Y+src.H)).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{Filter: c.Filter}
	op.GeoM.Scale(float64(dst.W)/float64(src.W), float64(dst.H)/float64(src.H))
	op.GeoM.Translate(float64(dst.X), float64(dst.Y))
	c.Target.DrawImage(sub, op)
}

// Game drives a skin from Ebitengine's update loop. The skin ticks every
// Interval; frames in between redraw the last state.
type Game struct {
	Skin   *skin.Skin
	Loader *Loader

	ctx      context.Context
	lastTick time.Time
	canvas   Canvas
}

func NewGame(ctx context.Context, s *skin.Skin, loader *Loader) *Game {
	return &Game{
		Skin:   s,
		Loader: loader,
		ctx:    ctx,
		canvas: Canvas{Filter: ebiten.FilterLinear},
	}
}

func (g *Game) Update() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	if now := time.Now(); g.lastTick.IsZero() || now.Sub(g.lastTick) >= g.Skin.Interval {
		g.lastTick = now
		g.Skin.Tick(g.ctx)
		if g.Skin.Resized() {
			setWindowSize(g.Skin.Window)
		}
	}
	return nil
}

func setWindowSize(cfg render.WindowConfig) {
	scale := max(float64(cfg.ScaleFactor), 1)
	ebiten.SetWindowSize(int(float64(cfg.Width)*scale), int(float64(cfg.Height)*scale))
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.Skin.Window.Transparent {
		screen.Fill(g.Skin.Window.DefaultBg)
	}
	g.canvas.Target = screen
	g.Skin.Draw(&g.canvas)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Skin.Window.Width, g.Skin.Window.Height
}

// Run opens a window sized by the skin and blocks until it is closed or ctx
// is done. The skin must have been loaded through loader.
func Run(ctx context.Context, s *skin.Skin, loader *Loader) error {
	cfg := s.Window
	setWindowSize(cfg)
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.Transparent {
		ebiten.SetWindowDecorated(false)
		ebiten.SetWindowFloating(true)
	}
	fps := cfg.TargetFPS
	if fps <= 0 {
		fps = render.DefaultTargetFPS
	}
	ebiten.SetTPS(fps)

	defer loader.Purge()
	log.Printf("INFO ebiten Run: %dx%d window for '%s'.", cfg.Width, cfg.Height, cfg.Title)
	err := ebiten.RunGameWithOptions(NewGame(ctx, s, loader), &ebiten.RunGameOptions{
		ScreenTransparent: cfg.Transparent,
	})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
