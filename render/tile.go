package render

import "github.com/kryonlabs/kryon-meter/meter"

// TileRects splits a tiled draw into plain copies for backends that cannot
// wrap-sample. src is in bitmap space and may extend past the bitmap's natural
// size; every bitmap-sized cell it covers becomes one piece, and pieces are
// scaled from src to dst the same way the whole rect would be.
func TileRects(src, dst meter.Rect, natural meter.Size) []meter.CompositeOp {
	if natural.Empty() || src.Area() == 0 || dst.Area() == 0 {
		return nil
	}

	var pieces []meter.CompositeOp
	srcRight, srcBottom := src.X+src.W, src.Y+src.H
	for sy := src.Y; sy < srcBottom; {
		ty := wrap(sy, natural.H)
		h := min(natural.H-ty, srcBottom-sy)
		dy0 := dst.Y + (sy-src.Y)*dst.H/src.H
		dy1 := dst.Y + (sy+h-src.Y)*dst.H/src.H

		for sx := src.X; sx < srcRight; {
			tx := wrap(sx, natural.W)
			w := min(natural.W-tx, srcRight-sx)
			dx0 := dst.X + (sx-src.X)*dst.W/src.W
			dx1 := dst.X + (sx+w-src.X)*dst.W/src.W

			if dx1 > dx0 && dy1 > dy0 {
				pieces = append(pieces, meter.CompositeOp{
					Src: meter.NewRect(tx, ty, w, h),
					Dst: meter.NewRect(dx0, dy0, dx1-dx0, dy1-dy0),
				})
			}
			sx += w
		}
		sy += h
	}
	return pieces
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
