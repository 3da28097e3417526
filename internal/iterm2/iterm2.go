// Package iterm2 writes frames as inline images using the iTerm2 terminal
// image protocol.
package iterm2

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// IsCompatible reports whether the current terminal claims to be iTerm2.
func IsCompatible() bool {
	return os.Getenv("TERM_PROGRAM") == "iTerm.app"
}

// Options tune how an inline image is shown. Zero values leave the choice to
// the terminal.
type Options struct {
	Name   string // Shown in the terminal's download UI
	Width  int    // Display width in pixels
	Height int    // Display height in pixels
}

func (o Options) args() string {
	args := []string{"inline=1"}
	if o.Name != "" {
		args = append(args, "name="+base64.StdEncoding.EncodeToString([]byte(o.Name)))
	}
	if o.Width > 0 {
		args = append(args, "width="+strconv.Itoa(o.Width)+"px")
	}
	if o.Height > 0 {
		args = append(args, "height="+strconv.Itoa(o.Height)+"px")
	}
	if o.Width > 0 && o.Height > 0 {
		args = append(args, "preserveAspectRatio=0")
	}
	return strings.Join(args, ";")
}

// Image writes m as an inline PNG.
func Image(w io.Writer, m image.Image, o Options) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\x1b]1337;File=%s;size=%d:", o.args(), buf.Len()); err != nil {
		return err
	}
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := enc.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\x07")); err != nil {
		return err
	}
	return nil
}

// CursorUp moves the cursor up n lines so the next frame overwrites the last.
func CursorUp(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "\x1b[%dA\r", n)
	return err
}

type CellSize struct {
	Width  float64
	Height float64
	Scale  float64
}

// ReportCellSize asks the terminal for its cell size in points.
func ReportCellSize(f *os.File) (sz CellSize, err error) {
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return CellSize{}, err
	}
	defer func() {
		if rerr := term.Restore(int(f.Fd()), state); err == nil {
			err = rerr
		}
	}()

	if _, err := f.Write([]byte("\x1b]1337;ReportCellSize\x07")); err != nil {
		return CellSize{}, err
	}

	b := make([]byte, 64)
	n, err := f.Read(b)
	if err != nil {
		return CellSize{}, err
	}
	return parseCellSize(string(b[:n]))
}

// parseCellSize parses "\x1b]1337;ReportCellSize=height;width[;scale]\x1b\\".
func parseCellSize(s string) (CellSize, error) {
	const p = "ReportCellSize="
	start := strings.Index(s, p)
	if start < 0 {
		return CellSize{}, fmt.Errorf("iterm2: unexpected cell size report %q", s)
	}
	s = s[start+len(p):]
	if stop := strings.Index(s, "\x1b\\"); stop >= 0 {
		s = s[:stop]
	}

	parts := strings.Split(s, ";")
	if len(parts) < 2 {
		return CellSize{}, fmt.Errorf("iterm2: unexpected cell size report %q", s)
	}
	sz := CellSize{Scale: 1}
	var err error
	if sz.Height, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return CellSize{}, fmt.Errorf("iterm2: cell height: %w", err)
	}
	if sz.Width, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return CellSize{}, fmt.Errorf("iterm2: cell width: %w", err)
	}
	if len(parts) > 2 {
		if sz.Scale, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return CellSize{}, fmt.Errorf("iterm2: cell scale: %w", err)
		}
	}
	return sz, nil
}

type Resolution struct {
	Width       int
	Height      int
	WidthAlign  int
	HeightAlign int
}

// Lines is how many terminal lines an image of height pixels occupies.
func (r Resolution) Lines(height int) int {
	if r.HeightAlign <= 0 {
		return 0
	}
	return (height + r.HeightAlign - 1) / r.HeightAlign
}

// PixelResolution measures the terminal in pixels.
func PixelResolution(f *os.File) (Resolution, error) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return Resolution{}, err
	}
	sz, err := ReportCellSize(f)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		Width:       w * int(sz.Width*sz.Scale),
		Height:      h * int(sz.Height*sz.Scale),
		WidthAlign:  int(sz.Width * sz.Scale),
		HeightAlign: int(sz.Height * sz.Scale),
	}, nil
}
