package software

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"log"

	"golang.org/x/image/draw"

	"github.com/kryonlabs/kryon-meter/meter"
	"github.com/kryonlabs/kryon-meter/render"
)

// Renderer draws frames into an in-memory RGBA image. It never opens a window;
// OnFrame receives every finished frame.
type Renderer struct {
	config render.WindowConfig
	frame  *image.RGBA
	canvas *Canvas
	loader *Loader
	closed bool

	// OnFrame is called from EndFrame with the finished frame.
	OnFrame func(frame *image.RGBA)
}

// NewRenderer creates a renderer loading bitmaps from fsys.
func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{loader: NewLoader(fsys)}
}

func (r *Renderer) Init(config render.WindowConfig) error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("software Renderer Init: invalid frame size %dx%d", config.Width, config.Height)
	}
	r.config = config
	r.frame = image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	r.canvas = NewCanvas(r.frame)
	r.closed = false
	log.Printf("software Renderer Init: %dx%d frame for '%s'.", config.Width, config.Height, config.Title)
	return nil
}

// Resize reallocates the frame at the new size. The next BeginFrame clears it.
func (r *Renderer) Resize(width, height int) error {
	cfg := r.config
	cfg.Width, cfg.Height = width, height
	return r.Init(cfg)
}

func (r *Renderer) Cleanup() {
	r.loader.Purge()
	r.closed = true
}

func (r *Renderer) ShouldClose() bool { return r.closed }

func (r *Renderer) BeginFrame() {
	bg := image.Transparent
	if !r.config.Transparent {
		bg = image.NewUniform(r.config.DefaultBg)
	}
	draw.Draw(r.frame, r.frame.Bounds(), bg, image.Point{}, draw.Src)
}

func (r *Renderer) EndFrame() {
	if r.OnFrame != nil {
		r.OnFrame(r.frame)
	}
}

func (r *Renderer) Canvas() meter.Canvas { return r.canvas }
func (r *Renderer) Loader() meter.Loader { return r.loader }

// Frame is the most recently drawn frame.
func (r *Renderer) Frame() *image.RGBA { return r.frame }

// WritePNG encodes the current frame.
func (r *Renderer) WritePNG(w io.Writer) error {
	if r.frame == nil {
		return fmt.Errorf("software Renderer WritePNG: renderer not initialized")
	}
	return png.Encode(w, r.frame)
}
