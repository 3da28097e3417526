package meter

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
)

// ErrNoImage is recorded when a meter resolves to an empty image name.
var ErrNoImage = errors.New("meter: no image name")

// ImageMeter displays one bitmap, chosen from a name template and bound data
// sources, inside a fixed rectangle.
//
// Update runs once per update tick and reloads the bitmap when its identifier
// changes. Draw runs once per frame and composites the bitmap onto a canvas.
// An ImageMeter is not safe for concurrent use.
type ImageMeter struct {
	name    string
	loader  Loader
	sources []DataSource

	opts  Options
	mode  LayoutMode
	names NameResolver

	identifier string
	loaded     bool
	loadErr    error
	natural    Size
	target     TargetSize

	initialized bool
	needsRedraw bool
}

// NewImageMeter creates a meter named name that loads bitmaps through loader
// and takes its image name from the given sources, in bound order.
func NewImageMeter(name string, loader Loader, sources ...DataSource) *ImageMeter {
	return &ImageMeter{
		name:    name,
		loader:  loader,
		sources: sources,
		names:   NameResolver{Sources: sources},
	}
}

func (m *ImageMeter) Name() string { return m.name }

// ReadOptions reads the meter's options from r and applies them.
func (m *ImageMeter) ReadOptions(r OptionReader) error {
	opts, err := ReadOptions(r)
	if err != nil {
		return fmt.Errorf("meter %q: %w", m.name, err)
	}
	m.SetOptions(opts)
	return nil
}

// SetOptions applies opts. A static meter that is already initialized loads its
// image again and asks for one redraw. A bound meter reloads on its next Update
// when ImageName or Path changed.
func (m *ImageMeter) SetOptions(opts Options) {
	// A new template or path must reach the loader even if the name resolves
	// to the same identifier.
	if opts.ImageName != m.opts.ImageName || opts.Path != m.opts.Path {
		m.names.Reset()
	}
	m.opts = opts
	m.mode = opts.Mode()
	m.names.Template = opts.ImageName
	m.target = opts.Target()
	if m.loaded {
		m.target = ResolveDimensions(m.natural, m.mode, m.target)
	}

	if m.initialized && m.isStatic() {
		m.Initialize()
		m.needsRedraw = true
	}
}

// Initialize loads the image of a static meter. Meters bound to sources load
// on their first Update instead.
func (m *ImageMeter) Initialize() {
	m.initialized = true
	m.target = m.opts.Target()
	if m.isStatic() && m.opts.ImageName != "" {
		m.identifier = m.opts.ImageName
		m.load(m.identifier, true)
	}
}

func (m *ImageMeter) isStatic() bool {
	return len(m.sources) == 0 && !m.opts.DynamicVariables
}

// Update resolves the image name for this tick and reloads the bitmap when the
// name changed. It reports whether the meter needs to be redrawn.
func (m *ImageMeter) Update() bool {
	if !m.isStatic() {
		name, changed := m.names.Resolve()
		m.identifier = name
		if changed {
			m.load(name, true)
		}
		return true
	}
	if m.needsRedraw {
		m.needsRedraw = false
		return true
	}
	return false
}

func (m *ImageMeter) loaderName(name string) string {
	if m.opts.Path == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.opts.Path, name)
}

func (m *ImageMeter) load(name string, force bool) {
	if name == "" {
		m.loaded, m.loadErr, m.natural = false, ErrNoImage, Size{}
		return
	}
	size, err := m.loader.Load(m.loaderName(name), force)
	if err != nil {
		log.Printf("ERROR ImageMeter: meter %q could not load image %q: %v", m.name, name, err)
		m.loaded, m.loadErr, m.natural = false, err, Size{}
		return
	}
	m.loaded, m.loadErr, m.natural = true, nil, size
	m.target = ResolveDimensions(size, m.mode, m.target)
}

// Layout returns the compositing operations for the current bitmap in
// meter-local coordinates. A meter without a loaded bitmap has none.
func (m *ImageMeter) Layout() []CompositeOp {
	if !m.loaded {
		return nil
	}
	return Layout(m.mode, m.target, m.natural, m.opts.ScaleMargins)
}

// Draw composites the current bitmap onto c. It returns false for hidden
// meters and true otherwise, including when there is nothing to draw.
func (m *ImageMeter) Draw(c Canvas) bool {
	if m.opts.Hidden {
		return false
	}
	ops := m.Layout()
	if len(ops) == 0 {
		return true
	}
	b, ok := m.loader.Borrow(m.loaderName(m.identifier))
	if !ok {
		log.Printf("WARN ImageMeter: meter %q lost bitmap %q before draw", m.name, m.identifier)
		return true
	}
	Composite(c, b, Point{X: m.opts.X, Y: m.opts.Y}, ops)
	return true
}

// Identifier is the image name resolved on the last load or update.
func (m *ImageMeter) Identifier() string { return m.identifier }

// Loaded reports whether the last load produced a bitmap.
func (m *ImageMeter) Loaded() bool { return m.loaded }

// Err is the error of the last failed load, or nil.
func (m *ImageMeter) Err() error { return m.loadErr }

func (m *ImageMeter) Mode() LayoutMode   { return m.mode }
func (m *ImageMeter) Natural() Size      { return m.natural }
func (m *ImageMeter) Target() TargetSize { return m.target }
func (m *ImageMeter) Options() Options   { return m.opts }

// Bounds is the meter rectangle on the canvas.
func (m *ImageMeter) Bounds() Rect {
	return NewRect(m.opts.X, m.opts.Y, m.target.W, m.target.H)
}
