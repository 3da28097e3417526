// render/raylib/raylib_renderer.go
package raylib

import (
	"fmt"
	"log"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kryonlabs/kryon-meter/meter"
	"github.com/kryonlabs/kryon-meter/render"
)

type RaylibRenderer struct {
	config      render.WindowConfig
	scaleFactor float32
	textures    *TextureLoader
	canvas      *Canvas
}

// NewRaylibRenderer creates a renderer whose textures are resolved relative to baseDir.
func NewRaylibRenderer(baseDir string) *RaylibRenderer {
	textures := NewTextureLoader(baseDir)
	return &RaylibRenderer{
		scaleFactor: 1.0,
		textures:    textures,
		canvas:      &Canvas{textures: textures, scale: 1.0},
	}
}

func (r *RaylibRenderer) Init(config render.WindowConfig) error {
	r.config = config
	r.scaleFactor = float32(math.Max(1.0, float64(config.ScaleFactor)))
	r.canvas.scale = r.scaleFactor

	width := int32(float32(config.Width) * r.scaleFactor)
	height := int32(float32(config.Height) * r.scaleFactor)
	log.Printf("RaylibRenderer Init: Initializing window %dx%d. Title: '%s'. UI Scale: %.2f.",
		width, height, config.Title, r.scaleFactor)

	if config.Transparent {
		rl.SetConfigFlags(rl.FlagWindowTransparent | rl.FlagWindowUndecorated)
	}
	rl.InitWindow(width, height, config.Title)

	if config.Resizable {
		rl.SetWindowState(rl.FlagWindowResizable)
	} else {
		rl.ClearWindowState(rl.FlagWindowResizable)
		rl.SetWindowSize(int(width), int(height)) // Enforce fixed size
	}

	fps := config.TargetFPS
	if fps <= 0 {
		fps = render.DefaultTargetFPS
	}
	rl.SetTargetFPS(int32(fps))

	if !rl.IsWindowReady() {
		return fmt.Errorf("RaylibRenderer Init: rl.InitWindow failed or window is not ready")
	}
	log.Println("RaylibRenderer Init: Raylib window is ready.")
	return nil
}

// Resize changes the window to width x height meter pixels.
func (r *RaylibRenderer) Resize(width, height int) error {
	if !rl.IsWindowReady() {
		return fmt.Errorf("RaylibRenderer Resize: window is not initialized")
	}
	r.config.Width, r.config.Height = width, height
	scaledW := int(float32(width) * r.scaleFactor)
	scaledH := int(float32(height) * r.scaleFactor)
	log.Printf("RaylibRenderer Resize: Resizing window to %dx%d.", scaledW, scaledH)
	rl.SetWindowSize(scaledW, scaledH)
	return nil
}

func (r *RaylibRenderer) Cleanup() {
	log.Println("RaylibRenderer Cleanup: Unloading textures...")
	unloadedCount := r.textures.Purge()
	log.Printf("RaylibRenderer Cleanup: Unloaded %d textures from cache.", unloadedCount)

	if rl.IsWindowReady() {
		log.Println("RaylibRenderer Cleanup: Closing Raylib window...")
		rl.CloseWindow()
	} else {
		log.Println("RaylibRenderer Cleanup: Raylib window was already closed or not initialized.")
	}
}

func (r *RaylibRenderer) ShouldClose() bool {
	return rl.IsWindowReady() && rl.WindowShouldClose()
}

func (r *RaylibRenderer) BeginFrame() {
	rl.BeginDrawing()
	if r.config.Transparent {
		rl.ClearBackground(rl.Blank)
		return
	}
	rl.ClearBackground(r.config.DefaultBg)
}

func (r *RaylibRenderer) EndFrame() {
	rl.EndDrawing()
}

func (r *RaylibRenderer) Canvas() meter.Canvas { return r.canvas }
func (r *RaylibRenderer) Loader() meter.Loader { return r.textures }

// Canvas draws textures from a TextureLoader onto the current raylib frame.
// Meter coordinates are multiplied by the window's UI scale.
type Canvas struct {
	textures *TextureLoader
	scale    float32
}

func (c *Canvas) DrawBitmap(b meter.Bitmap, src, dst meter.Rect, tiled bool) {
	tb, ok := b.(*textureBitmap)
	if !ok {
		log.Printf("ERROR raylib.Canvas: bitmap %T was not loaded by the raylib backend", b)
		return
	}
	if src.Area() == 0 || dst.Area() == 0 {
		return
	}

	sourceRec := rl.NewRectangle(float32(src.X), float32(src.Y), float32(src.W), float32(src.H))
	destRec := rl.NewRectangle(
		float32(dst.X)*c.scale, float32(dst.Y)*c.scale,
		float32(dst.W)*c.scale, float32(dst.H)*c.scale,
	)

	// Source rects past the texture edge sample wrapped texels while tiling.
	if tiled {
		rl.SetTextureWrap(tb.texture, rl.WrapRepeat)
		defer rl.SetTextureWrap(tb.texture, rl.WrapClamp)
	}
	rl.DrawTexturePro(tb.texture, sourceRec, destRec, rl.NewVector2(0, 0), 0.0, rl.White)
}
