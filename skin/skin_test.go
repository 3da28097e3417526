package skin

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/fortytw2/leaktest"

	"github.com/kryonlabs/kryon-meter/meter"
	"github.com/kryonlabs/kryon-meter/render/software"
)

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const testSkin = `
[Rainmeter]
Update=#Rate#

[Variables]
Rate=250
Dir=frames

[MeasureFrame]
Measure=Loop
StartValue=1
EndValue=2

[MeasureTitle]
Measure=String
String=banner

[MeterFrame]
Meter=Image
MeasureName=MeasureFrame
ImageName=#Dir#/frame%1.png
X=2
Y=3
W=20
PreserveAspectRatio=1

[MeterBanner]
Meter=Image
ImageName=[MeasureTitle].png
MeasureName=MeasureTitle
Y=20
W=40
H=10
Tile=1

[MeterStatic]
Meter=Image
ImageName=frames/frame1.png
ScaleMargins=1,1,1,1
X=50

[MeterText]
Meter=String

[MeasureBogus]
Measure=Calc
`

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"skin.ini":          {Data: []byte(testSkin)},
		"frames/frame1.png": {Data: solidPNG(t, 10, 5, color.RGBA{R: 255, A: 255})},
		"frames/frame2.png": {Data: solidPNG(t, 10, 10, color.RGBA{G: 255, A: 255})},
		"banner.png":        {Data: solidPNG(t, 4, 4, color.RGBA{B: 255, A: 255})},
	}
}

func TestLoad(t *testing.T) {
	fsys := testFS(t)
	s, err := Load(fsys, "skin.ini", software.NewLoader(fsys))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Interval != 250*time.Millisecond {
		t.Errorf("Interval = %v, want 250ms", s.Interval)
	}
	if len(s.Measures) != 2 {
		t.Errorf("loaded %d measures, want 2", len(s.Measures))
	}
	if len(s.Meters) != 3 {
		t.Fatalf("loaded %d meters, want 3", len(s.Meters))
	}

	static := s.Meter("meterstatic")
	if static == nil || !static.Loaded() {
		t.Fatalf("static meter not loaded at load time")
	}
	if got := static.Options().ScaleMargins; got != (meter.Margins{Left: 1, Top: 1, Right: 1, Bottom: 1}) {
		t.Errorf("ScaleMargins = %+v", got)
	}
	if s.Meter("MeterFrame").Loaded() {
		t.Errorf("bound meter loaded before first tick")
	}
	if s.Meter("MeterBanner").Mode() != meter.LayoutTile {
		t.Errorf("MeterBanner mode = %s, want Tile", s.Meter("MeterBanner").Mode())
	}
}

func TestTickAndDraw(t *testing.T) {
	fsys := testFS(t)
	r := software.NewRenderer(fsys)
	s, err := Load(fsys, "skin.ini", r.Loader())
	if err != nil {
		t.Fatal(err)
	}
	if !s.Tick(context.Background()) {
		t.Fatalf("first Tick() = false, want redraw")
	}

	frame := s.Meter("MeterFrame")
	if frame.Identifier() != "frames/frame1.png" {
		t.Errorf("Identifier() = %q, want frames/frame1.png", frame.Identifier())
	}
	if got := frame.Target().Size(); got != (meter.Size{W: 20, H: 10}) {
		t.Errorf("MeterFrame size = %v, want 20x10", got)
	}
	if got := s.Meter("MeterBanner").Identifier(); got != "banner.png" {
		t.Errorf("MeterBanner Identifier() = %q, want banner.png", got)
	}

	cfg := s.Window
	if cfg.Width != 60 || cfg.Height != 30 {
		t.Errorf("window = %dx%d, want 60x30 from meter bounds", cfg.Width, cfg.Height)
	}
	if err := r.Init(cfg); err != nil {
		t.Fatal(err)
	}
	r.BeginFrame()
	s.Draw(r.Canvas())
	r.EndFrame()

	img := r.Frame()
	if got := img.RGBAAt(5, 5); got.R < 200 || got.G > 50 {
		t.Errorf("MeterFrame pixel = %v, want red", got)
	}
	if got := img.RGBAAt(39, 29); got.B != 255 {
		t.Errorf("MeterBanner tiled pixel = %v, want blue", got)
	}

	s.Tick(context.Background())
	if frame.Identifier() != "frames/frame2.png" {
		t.Errorf("second tick Identifier() = %q, want frames/frame2.png", frame.Identifier())
	}
	if got := frame.Target().Size(); got != (meter.Size{W: 20, H: 20}) {
		t.Errorf("MeterFrame size after reload = %v, want 20x20", got)
	}
}

// docSkin is the example from the package documentation.
const docSkin = `
[Rainmeter]
Update=500

[MeasureFrame]
Measure=Loop
StartValue=1
EndValue=8

[MeterSprite]
Meter=Image
MeasureName=MeasureFrame
ImageName=frames/frame%1.png
W=64
PreserveAspectRatio=1
`

func TestTick_GrowsWindowToLoadedMeters(t *testing.T) {
	fsys := fstest.MapFS{
		"skin.ini":          {Data: []byte(docSkin)},
		"frames/frame1.png": {Data: solidPNG(t, 16, 16, color.RGBA{R: 255, A: 255})},
	}
	r := software.NewRenderer(fsys)
	s, err := Load(fsys, "skin.ini", r.Loader())
	if err != nil {
		t.Fatal(err)
	}
	if s.Window.Width != 64 || s.Window.Height != 1 {
		t.Fatalf("window before first tick = %dx%d, want 64x1", s.Window.Width, s.Window.Height)
	}

	s.Tick(context.Background())
	if s.Window.Width != 64 || s.Window.Height != 64 {
		t.Errorf("window after first tick = %dx%d, want 64x64", s.Window.Width, s.Window.Height)
	}
	if !s.Resized() {
		t.Errorf("Resized() = false after the window grew")
	}
	if s.Resized() {
		t.Errorf("Resized() = true twice for one change")
	}

	if err := r.Init(s.Window); err != nil {
		t.Fatal(err)
	}
	r.BeginFrame()
	s.Draw(r.Canvas())
	r.EndFrame()
	if got := r.Frame().RGBAAt(32, 63); got.R < 200 || got.G > 50 {
		t.Errorf("bottom of sprite = %v, want red", got)
	}
}

func TestTick_FixedWindowDoesNotGrow(t *testing.T) {
	type tc struct {
		settings   string
		wantWidth  int
		wantHeight int
	}

	tests := map[string]tc{
		"both fixed":   {settings: "W=10\nH=12\n", wantWidth: 10, wantHeight: 12},
		"width fixed":  {settings: "W=10\n", wantWidth: 10, wantHeight: 30},
		"height fixed": {settings: "H=12\n", wantWidth: 40, wantHeight: 12},
		"none":         {wantWidth: 40, wantHeight: 30},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"a.png": {Data: solidPNG(t, 4, 3, color.RGBA{A: 255})}}
			data := "[Rainmeter]\n" + tt.settings + "\n[MeasureA]\nMeasure=String\nString=a\n\n" +
				"[MeterA]\nMeter=Image\nMeasureName=MeasureA\nImageName=%1.png\nW=40\n"
			s, err := Parse(name, []byte(data), software.NewLoader(fsys))
			if err != nil {
				t.Fatal(err)
			}
			s.Tick(context.Background())
			if s.Window.Width != tt.wantWidth || s.Window.Height != tt.wantHeight {
				t.Errorf("window = %dx%d, want %dx%d", s.Window.Width, s.Window.Height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestDynamicVariables(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png": {Data: solidPNG(t, 2, 2, color.RGBA{A: 255})},
		"b.png": {Data: solidPNG(t, 3, 3, color.RGBA{A: 255})},
	}
	data := []byte("[Variables]\nImg=a\n\n[MeterDyn]\nMeter=Image\nImageName=#Img#.png\nDynamicVariables=1\n")
	s, err := Parse("dyn.ini", data, software.NewLoader(fsys))
	if err != nil {
		t.Fatal(err)
	}
	m := s.Meter("MeterDyn")

	s.Tick(context.Background())
	if m.Identifier() != "a.png" || m.Natural() != (meter.Size{W: 2, H: 2}) {
		t.Fatalf("Identifier() = %q, Natural() = %v", m.Identifier(), m.Natural())
	}

	s.SetVariable("img", "b")
	s.Tick(context.Background())
	if m.Identifier() != "b.png" || m.Natural() != (meter.Size{W: 3, H: 3}) {
		t.Errorf("after SetVariable Identifier() = %q, Natural() = %v", m.Identifier(), m.Natural())
	}
}

func TestParse_Errors(t *testing.T) {
	type tc struct {
		data    string
		wantErr error
	}

	tests := map[string]tc{
		"no meters":   {data: "[MeasureA]\nMeasure=String\n", wantErr: ErrNoMeters},
		"bad margins": {data: "[M]\nMeter=Image\nScaleMargins=1,x\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name, []byte(tt.data), software.NewLoader(fstest.MapFS{}))
			if err == nil {
				t.Fatalf("Parse() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandVariables(t *testing.T) {
	vars := map[string]string{"dir": "img", "n": "3"}

	type tc struct {
		in   string
		want string
	}
	tests := map[string]tc{
		"none":         {in: "a.png", want: "a.png"},
		"one":          {in: "#Dir#/a.png", want: "img/a.png"},
		"two":          {in: "#dir#/#N#.png", want: "img/3.png"},
		"unknown kept": {in: "#x#/#n#", want: "#x#/3"},
		"unterminated": {in: "#dir", want: "#dir"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := expandVariables(tt.in, vars); got != tt.want {
				t.Errorf("expandVariables(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	defer leaktest.Check(t)()

	fsys := testFS(t)
	s, err := Load(fsys, "skin.ini", software.NewLoader(fsys))
	if err != nil {
		t.Fatal(err)
	}
	s.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan bool, 64)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(redraw bool) error {
			select {
			case frames <- redraw:
			default:
			}
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		<-frames
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_FrameError(t *testing.T) {
	defer leaktest.Check(t)()

	fsys := testFS(t)
	s, err := Load(fsys, "skin.ini", software.NewLoader(fsys))
	if err != nil {
		t.Fatal(err)
	}
	stop := errors.New("stop")
	calls := 0
	err = s.Run(context.Background(), func(bool) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("Run() = %v after %d frames, want stop after 1", err, calls)
	}
}
