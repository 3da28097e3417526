// Command imagemeter renders an image meter skin to a PNG file, an iTerm2
// terminal, or a raylib window. Built with -tags ebiten it opens an
// Ebitengine window instead of raylib.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/kryonlabs/kryon-meter/internal/iterm2"
	"github.com/kryonlabs/kryon-meter/meter"
	"github.com/kryonlabs/kryon-meter/render"
	"github.com/kryonlabs/kryon-meter/render/software"
	"github.com/kryonlabs/kryon-meter/skin"
)

var (
	skinFlag    = flag.String("skin", "", "Skin INI file")
	backendFlag = flag.String("backend", "png", "Backend: png, iterm2, or raylib (ebiten with -tags ebiten)")
	outFlag     = flag.String("out", "frame.png", "Output file for the png backend")
	ticksFlag   = flag.Int("ticks", 1, "Update ticks before the png snapshot, or before exiting (0 runs until closed)")
	debugFlag   = flag.Bool("d", false, "Log every skin tick")
)

func main() {
	flag.Parse()
	if *skinFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: imagemeter -skin file.ini [-backend png|iterm2|raylib] (ebiten with -tags ebiten) [-out f.png] [-ticks n]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dir, name := filepath.Split(*skinFlag)
	if dir == "" {
		dir = "."
	}
	fsys := os.DirFS(dir)

	load := func(loader meter.Loader) (*skin.Skin, error) {
		s, err := skin.Load(fsys, name, loader)
		if err != nil {
			return nil, err
		}
		s.Debug = s.Debug || *debugFlag
		return s, nil
	}

	switch *backendFlag {
	case "png":
		r := software.NewRenderer(fsys)
		s, err := load(r.Loader())
		if err != nil {
			return err
		}
		return snapshot(ctx, s, r, max(*ticksFlag, 1), *outFlag)
	case "iterm2":
		r := software.NewRenderer(fsys)
		s, err := load(r.Loader())
		if err != nil {
			return err
		}
		return terminal(ctx, s, r, *ticksFlag)
	default:
		open, ok := windowBackends[*backendFlag]
		if !ok {
			return fmt.Errorf("unknown backend %q (window backends in this build: %s)",
				*backendFlag, strings.Join(windowBackendNames(), ", "))
		}
		return open(ctx, windowSkin{dir: dir, fsys: fsys, load: load, ticks: *ticksFlag})
	}
}

// windowSkin is what a window backend needs to load and run a skin.
type windowSkin struct {
	dir   string
	fsys  fs.FS
	load  func(meter.Loader) (*skin.Skin, error)
	ticks int
}

// windowBackends holds the GPU backends compiled into this binary. raylib and
// Ebitengine both link GLFW, so each build carries only one of them; build
// with -tags ebiten to swap raylib for Ebitengine.
var windowBackends = map[string]func(ctx context.Context, ws windowSkin) error{}

func windowBackendNames() []string {
	names := make([]string, 0, len(windowBackends))
	for name := range windowBackends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resizer is implemented by renderers that can follow a growing skin window.
type resizer interface {
	Resize(width, height int) error
}

// followWindow resizes r when the skin's window grew during the last tick.
func followWindow(s *skin.Skin, r resizer) error {
	if !s.Resized() {
		return nil
	}
	return r.Resize(s.Window.Width, s.Window.Height)
}

// snapshot ticks the skin without waiting and writes the last frame.
func snapshot(ctx context.Context, s *skin.Skin, r *software.Renderer, ticks int, out string) error {
	if err := r.Init(s.Window); err != nil {
		return err
	}
	defer r.Cleanup()

	for i := 0; i < ticks; i++ {
		s.Tick(ctx)
	}
	if err := followWindow(s, r); err != nil {
		return err
	}
	r.BeginFrame()
	s.Draw(r.Canvas())
	r.EndFrame()

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("INFO imagemeter: wrote %dx%d frame to %s", s.Window.Width, s.Window.Height, out)
	return nil
}

// terminal prints a frame per tick, overwriting the previous one when stdout
// is a terminal.
func terminal(ctx context.Context, s *skin.Skin, r *software.Renderer, ticks int) error {
	if !iterm2.IsCompatible() {
		log.Println("WARN imagemeter: not an iTerm2 terminal, images may not show")
	}
	if err := r.Init(s.Window); err != nil {
		return err
	}
	defer r.Cleanup()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	var res iterm2.Resolution
	if interactive && term.IsTerminal(int(os.Stdin.Fd())) {
		if got, err := iterm2.PixelResolution(os.Stdin); err == nil {
			res = got
		} else {
			log.Printf("WARN imagemeter: terminal resolution: %v", err)
		}
	}

	var frameErr error
	lines := 0
	r.OnFrame = func(frame *image.RGBA) {
		if interactive {
			if err := iterm2.CursorUp(os.Stdout, lines); err != nil {
				frameErr = err
				return
			}
		}
		if err := iterm2.Image(os.Stdout, frame, iterm2.Options{Name: s.Name}); err != nil {
			frameErr = err
			return
		}
		fmt.Println()
		lines = res.Lines(frame.Bounds().Dy()) + 1
	}

	count := 0
	return s.Run(ctx, func(redraw bool) error {
		count++
		if err := followWindow(s, r); err != nil {
			return err
		}
		if redraw || count == 1 {
			r.BeginFrame()
			s.Draw(r.Canvas())
			r.EndFrame()
		}
		if frameErr != nil {
			return frameErr
		}
		if ticks > 0 && count >= ticks {
			return context.Canceled
		}
		return nil
	})
}

// window runs a frame loop on a windowed renderer, ticking the skin at its
// update interval.
func window(ctx context.Context, s *skin.Skin, r render.Renderer, ticks int) error {
	if err := r.Init(s.Window); err != nil {
		r.Cleanup()
		return err
	}
	defer r.Cleanup()

	log.Println("INFO imagemeter: Entering main loop...")
	var lastTick time.Time
	count := 0
	for !r.ShouldClose() && ctx.Err() == nil {
		if now := time.Now(); lastTick.IsZero() || now.Sub(lastTick) >= s.Interval {
			if ticks > 0 && count >= ticks {
				break
			}
			lastTick = now
			s.Tick(ctx)
			count++
			if rs, ok := r.(resizer); ok {
				if err := followWindow(s, rs); err != nil {
					log.Printf("WARN imagemeter: %v", err)
				}
			}
		}

		r.BeginFrame()
		s.Draw(r.Canvas())
		r.EndFrame()
	}
	return nil
}
