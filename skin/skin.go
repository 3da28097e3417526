// Package skin loads image meters and their measures from INI skin files and
// drives their update ticks.
//
// A skin looks like:
//
//	[Rainmeter]
//	Update=500
//
//	[MeasureFrame]
//	Measure=Loop
//	StartValue=1
//	EndValue=8
//
//	[MeterSprite]
//	Meter=Image
//	MeasureName=MeasureFrame
//	ImageName=frames/frame%1.png
//	W=64
//	PreserveAspectRatio=1
package skin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/kryonlabs/kryon-meter/measure"
	"github.com/kryonlabs/kryon-meter/meter"
	"github.com/kryonlabs/kryon-meter/render"
)

// ErrNoMeters is returned for skins without any image meter.
var ErrNoMeters = errors.New("skin: no image meters")

const (
	settingsSection  = "Rainmeter"
	variablesSection = "Variables"
)

// Skin is a loaded set of measures and image meters.
type Skin struct {
	Name     string
	Interval time.Duration
	Window   render.WindowConfig
	Measures []measure.Measure
	Meters   []*meter.ImageMeter
	// Debug logs every tick.
	Debug bool

	vars    map[string]string
	dynamic map[*meter.ImageMeter]*ini.Section
	ticks   int
	// fixedW and fixedH are set when the skin sizes the window itself.
	fixedW, fixedH bool
	resized        bool
}

// Load reads the skin file name from fsys. Meters load their bitmaps through loader.
func Load(fsys fs.FS, name string, loader meter.Loader) (*Skin, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("skin Load: %w", err)
	}
	return Parse(name, data, loader)
}

// Parse builds a skin from INI data and initializes its meters.
func Parse(name string, data []byte, loader meter.Loader) (*Skin, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("skin %q: parse: %w", name, err)
	}

	s := &Skin{
		Name:     name,
		Interval: render.DefaultUpdateMs * time.Millisecond,
		Window:   render.DefaultWindowConfig(),
		vars:     make(map[string]string),
		dynamic:  make(map[*meter.ImageMeter]*ini.Section),
	}
	s.Window.Title = name
	s.Window.Width, s.Window.Height = 0, 0

	if sec, err := f.GetSection(variablesSection); err == nil {
		for _, k := range sec.Keys() {
			s.vars[strings.ToLower(k.Name())] = k.String()
		}
	}
	if sec, err := f.GetSection(settingsSection); err == nil {
		s.readSettings(s.reader(sec))
	}

	for _, sec := range f.Sections() {
		if !sec.HasKey("Measure") {
			continue
		}
		r := s.reader(sec)
		ms, err := measure.New(r.ReadString("Measure", ""), sec.Name(), r)
		if err != nil {
			log.Printf("WARN skin %q: skipping section [%s]: %v", name, sec.Name(), err)
			continue
		}
		s.Measures = append(s.Measures, ms)
	}

	for _, sec := range f.Sections() {
		if !sec.HasKey("Meter") {
			continue
		}
		r := s.reader(sec)
		if kind := r.ReadString("Meter", ""); !strings.EqualFold(kind, "Image") {
			log.Printf("WARN skin %q: skipping section [%s]: unsupported meter type %q", name, sec.Name(), kind)
			continue
		}
		m := meter.NewImageMeter(sec.Name(), loader, s.bindMeasures(sec.Name(), r)...)
		if err := m.ReadOptions(r); err != nil {
			return nil, fmt.Errorf("skin %q: %w", name, err)
		}
		if m.Options().DynamicVariables {
			s.dynamic[m] = sec
		}
		s.Meters = append(s.Meters, m)
	}
	if len(s.Meters) == 0 {
		return nil, fmt.Errorf("skin %q: %w", name, ErrNoMeters)
	}

	for _, m := range s.Meters {
		m.Initialize()
	}
	s.fitWindow()
	return s, nil
}

func (s *Skin) reader(sec *ini.Section) sectionReader {
	return sectionReader{sec: sec, vars: s.vars}
}

func (s *Skin) readSettings(r sectionReader) {
	if ms := r.ReadInt("Update", render.DefaultUpdateMs); ms > 0 {
		s.Interval = time.Duration(ms) * time.Millisecond
	}
	s.Window.Width = max(r.ReadInt("W", 0), 0)
	s.Window.Height = max(r.ReadInt("H", 0), 0)
	s.fixedW, s.fixedH = s.Window.Width > 0, s.Window.Height > 0
	s.Window.Title = r.ReadString("Title", s.Window.Title)
	s.Window.Transparent = r.ReadInt("Transparent", 0) != 0
	s.Debug = r.ReadInt("Debug", 0) != 0
}

// bindMeasures resolves MeasureName, MeasureName2, ... in order, stopping at
// the first missing key.
func (s *Skin) bindMeasures(meterName string, r sectionReader) []meter.DataSource {
	var sources []meter.DataSource
	for i := 1; ; i++ {
		key := "MeasureName"
		if i > 1 {
			key += strconv.Itoa(i)
		}
		name := r.ReadString(key, "")
		if name == "" {
			return sources
		}
		ms := s.Measure(name)
		if ms == nil {
			log.Printf("ERROR skin %q: meter [%s] references unknown measure %q", s.Name, meterName, name)
			return sources
		}
		sources = append(sources, ms)
	}
}

// fitWindow grows the window to cover every meter, in each dimension the skin
// did not size itself. It reports whether the window changed. Bound meters only
// know their derived size after their first load, so it runs again every tick.
func (s *Skin) fitWindow() bool {
	b := s.Bounds()
	w, h := s.Window.Width, s.Window.Height
	if !s.fixedW {
		s.Window.Width = max(w, b.X+b.W, 1)
	}
	if !s.fixedH {
		s.Window.Height = max(h, b.Y+b.H, 1)
	}
	return s.Window.Width != w || s.Window.Height != h
}

// Measure finds a measure by section name, case-insensitively.
func (s *Skin) Measure(name string) measure.Measure {
	for _, ms := range s.Measures {
		if strings.EqualFold(ms.Name(), name) {
			return ms
		}
	}
	return nil
}

// Meter finds an image meter by section name, case-insensitively.
func (s *Skin) Meter(name string) *meter.ImageMeter {
	for _, m := range s.Meters {
		if strings.EqualFold(m.Name(), name) {
			return m
		}
	}
	return nil
}

// SetVariable changes a [Variables] value. Meters with DynamicVariables=1 pick
// it up on the next tick.
func (s *Skin) SetVariable(name, value string) {
	s.vars[strings.ToLower(name)] = value
}

// Bounds is the smallest rectangle from the origin covering every meter.
func (s *Skin) Bounds() meter.Rect {
	var w, h int
	for _, m := range s.Meters {
		b := m.Bounds()
		w = max(w, b.X+b.W)
		h = max(h, b.Y+b.H)
	}
	return meter.NewRect(0, 0, w, h)
}

// Tick updates every measure, then every meter. It reports whether any meter
// needs a redraw. Window may grow after a tick; see Resized.
func (s *Skin) Tick(ctx context.Context) bool {
	s.ticks++
	for _, ms := range s.Measures {
		if err := ms.Update(ctx); err != nil {
			log.Printf("ERROR Skin.Tick: %v", err)
		}
	}

	redraw := false
	for _, m := range s.Meters {
		if sec, ok := s.dynamic[m]; ok {
			if err := m.ReadOptions(s.reader(sec)); err != nil {
				log.Printf("ERROR Skin.Tick: %v", err)
			}
		}
		if m.Update() {
			redraw = true
		}
	}
	if s.fitWindow() {
		s.resized = true
		redraw = true
		log.Printf("INFO Skin.Tick: %q window grew to %dx%d", s.Name, s.Window.Width, s.Window.Height)
	}
	if s.Debug {
		log.Printf("DEBUG Skin.Tick: %q tick %d, redraw %t", s.Name, s.ticks, redraw)
	}
	return redraw
}

// Resized reports whether Window changed since the last call.
func (s *Skin) Resized() bool {
	r := s.resized
	s.resized = false
	return r
}

// Draw composites every visible meter onto c in section order.
func (s *Skin) Draw(c meter.Canvas) {
	for _, m := range s.Meters {
		m.Draw(c)
	}
}

// Run ticks the skin every Interval until ctx is done, calling onFrame after
// each tick. The first tick happens immediately. An error from onFrame stops
// the loop and is returned.
func (s *Skin) Run(ctx context.Context, onFrame func(redraw bool) error) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		if err := onFrame(s.Tick(ctx)); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
