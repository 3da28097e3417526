package meter

// TargetSize is the meter's on-screen extent. Explicit dimensions come from
// configuration; the others are derived from the bitmap on each load.
type TargetSize struct {
	W, H      int
	WExplicit bool
	HExplicit bool
}

// Size drops the explicit flags.
func (t TargetSize) Size() Size { return Size{W: t.W, H: t.H} }

// ResolveDimensions fills in the dimensions of current that configuration left
// unset, using the bitmap's natural size. Derived sizes keep the bitmap's aspect
// ratio (truncating), except in tile mode where the natural size is reused as is.
func ResolveDimensions(natural Size, mode LayoutMode, current TargetSize) TargetSize {
	out := current
	switch {
	case current.WExplicit && current.HExplicit:
	case current.WExplicit:
		switch {
		case natural.W == 0:
			out.H = 0
		case mode == LayoutTile:
			out.H = natural.H
		default:
			out.H = current.W * natural.H / natural.W
		}
	case current.HExplicit:
		switch {
		case natural.H == 0:
			out.W = 0
		case mode == LayoutTile:
			out.W = natural.W
		default:
			out.W = current.H * natural.W / natural.H
		}
	default:
		out.W = natural.W
		out.H = natural.H
	}
	return out
}
