package meter

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a pixel position on a canvas.
type Point struct {
	X, Y int
}

// Size is a pixel extent. A bitmap's natural size is (0,0) when it failed to load.
type Size struct {
	W, H int
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an integer rectangle given by origin and extent.
type Rect struct {
	X, Y, W, H int
}

func NewRect(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Size returns the extent of r.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Area is zero for degenerate rects.
func (r Rect) Area() int {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Offset returns r translated by p.
func (r Rect) Offset(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Margins are the nine-slice insets, in source pixels.
type Margins struct {
	Left, Top, Right, Bottom int
}

// IsZero reports whether all four insets are zero.
func (m Margins) IsZero() bool {
	return m.Left == 0 && m.Top == 0 && m.Right == 0 && m.Bottom == 0
}

// ParseMargins reads "left,top,right,bottom". Missing trailing components are
// zero and negative components clamp to zero.
func ParseMargins(s string) (Margins, error) {
	var m Margins
	s = strings.TrimSpace(s)
	if s == "" {
		return m, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > 4 {
		return Margins{}, fmt.Errorf("ParseMargins: expected at most 4 components, got %d in %q", len(parts), s)
	}
	dst := []*int{&m.Left, &m.Top, &m.Right, &m.Bottom}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return Margins{}, fmt.Errorf("ParseMargins: component %d of %q: %w", i+1, s, err)
		}
		*dst[i] = max(v, 0)
	}
	return m, nil
}
