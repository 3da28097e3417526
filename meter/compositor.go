package meter

// Bitmap is a decoded image handed out by a Loader. It is only valid for the
// draw call it was borrowed for.
type Bitmap interface {
	Size() Size
}

// Canvas is the drawing primitive of a backend. DrawBitmap copies src from
// the bitmap to dst on the canvas, scaling when the sizes differ, or
// wrap-repeating src across dst when tiled is set.
type Canvas interface {
	DrawBitmap(b Bitmap, src, dst Rect, tiled bool)
}

// Loader resolves bitmap identifiers for a backend.
type Loader interface {
	// Load makes the bitmap for name available and returns its natural size.
	// A cached bitmap is reused unless force is set.
	Load(name string, force bool) (Size, error)
	// Borrow returns the loaded bitmap for name for the duration of one draw.
	Borrow(name string) (Bitmap, bool)
}

// Composite executes ops in order, translating destinations by origin.
func Composite(c Canvas, b Bitmap, origin Point, ops []CompositeOp) {
	for _, op := range ops {
		c.DrawBitmap(b, op.Src, op.Dst.Offset(origin), op.Tiled)
	}
}
