// render/render.go
package render

import (
	"image/color"

	"github.com/kryonlabs/kryon-meter/meter"
)

const (
	DefaultTargetFPS = 60
	// DefaultUpdateMs is the skin update interval when a skin does not set one.
	DefaultUpdateMs = 1000
)

type WindowConfig struct {
	Width       int
	Height      int
	Title       string
	Resizable   bool
	ScaleFactor float32    // Global UI scale factor
	DefaultBg   color.RGBA // Window clear color
	TargetFPS   int
	Transparent bool // Leave the background undrawn, desktop-widget style
}

// Renderer is implemented by every backend that owns a frame loop.
type Renderer interface {
	// --- Initialization and Setup ---
	Init(config WindowConfig) error
	Cleanup()
	ShouldClose() bool

	// --- Frame Lifecycle ---
	BeginFrame() // Clears the canvas
	EndFrame()   // Presents the frame

	// --- Meter Resources ---
	Canvas() meter.Canvas // Drawing primitive for the current frame
	Loader() meter.Loader // Bitmap loader whose bitmaps Canvas can draw
}

// DefaultWindowConfig provides sensible default values for the application window.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:       800,
		Height:      600,
		Title:       "Kryon Meter",
		Resizable:   true,
		ScaleFactor: 1.0,
		DefaultBg:   color.RGBA{R: 30, G: 30, B: 30, A: 255}, // Dark Gray
		TargetFPS:   DefaultTargetFPS,
	}
}
