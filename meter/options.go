package meter

import "fmt"

// OptionReader looks up meter options in one configuration section.
type OptionReader interface {
	ReadString(key, def string) string
	ReadInt(key string, def int) int
	// IsDefined reports whether key is present in the section.
	IsDefined(key string) bool
}

// Options is the configuration of one image meter.
type Options struct {
	ImageName string
	// Path is prefixed to relative image names. Deprecated in skins, still honored.
	Path string

	X, Y     int
	W, H     int
	WDefined bool
	HDefined bool
	Hidden   bool

	Tile                int
	PreserveAspectRatio int
	ScaleMargins        Margins

	// DynamicVariables re-resolves ImageName every tick even with no bound sources.
	DynamicVariables bool
}

// Mode is the layout mode selected by the Tile and PreserveAspectRatio options.
func (o Options) Mode() LayoutMode {
	return SelectLayoutMode(o.Tile, o.PreserveAspectRatio)
}

// Target is the configured size before any bitmap is loaded.
func (o Options) Target() TargetSize {
	t := TargetSize{WExplicit: o.WDefined, HExplicit: o.HDefined}
	if o.WDefined {
		t.W = o.W
	}
	if o.HDefined {
		t.H = o.H
	}
	return t
}

// ReadOptions reads an image meter's options. Only a malformed ScaleMargins
// is an error; every other option falls back to its default.
func ReadOptions(r OptionReader) (Options, error) {
	o := Options{
		ImageName:           r.ReadString("ImageName", ""),
		Path:                r.ReadString("Path", ""),
		X:                   r.ReadInt("X", 0),
		Y:                   r.ReadInt("Y", 0),
		Hidden:              r.ReadInt("Hidden", 0) != 0,
		Tile:                r.ReadInt("Tile", 0),
		PreserveAspectRatio: r.ReadInt("PreserveAspectRatio", 0),
		DynamicVariables:    r.ReadInt("DynamicVariables", 0) != 0,
	}
	if r.IsDefined("W") {
		o.W = max(r.ReadInt("W", 0), 0)
		o.WDefined = true
	}
	if r.IsDefined("H") {
		o.H = max(r.ReadInt("H", 0), 0)
		o.HDefined = true
	}

	m, err := ParseMargins(r.ReadString("ScaleMargins", ""))
	if err != nil {
		return o, fmt.Errorf("ReadOptions: %w", err)
	}
	o.ScaleMargins = m
	return o, nil
}
