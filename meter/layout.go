package meter

// CompositeOp copies Src (bitmap pixels) onto Dst (meter-local pixels). When
// Tiled is set the source rect is sampled with wrap-repeat instead of being
// stretched.
type CompositeOp struct {
	Src   Rect
	Dst   Rect
	Tiled bool
}

// Layout computes the compositing operations that place a bitmap of the given
// natural size into target. Destination rects are relative to the meter origin.
// Zero-sized bitmaps or targets produce no operations.
func Layout(mode LayoutMode, target TargetSize, natural Size, margins Margins) []CompositeOp {
	if natural.Empty() || target.W <= 0 || target.H <= 0 {
		return nil
	}
	if target.Size() == natural && margins.IsZero() {
		return []CompositeOp{fullCopy(target.Size(), natural)}
	}

	switch mode {
	case LayoutTile:
		return layoutTile(target)
	case LayoutKeepRatio:
		return layoutKeepRatio(target, natural)
	case LayoutKeepRatioAndCrop:
		return layoutKeepRatioAndCrop(target, natural)
	default:
		return layoutNineSlice(target.Size(), natural, margins)
	}
}

func fullCopy(target, natural Size) CompositeOp {
	return CompositeOp{
		Src: NewRect(0, 0, natural.W, natural.H),
		Dst: NewRect(0, 0, target.W, target.H),
	}
}

func layoutTile(target TargetSize) []CompositeOp {
	return []CompositeOp{{
		Src:   NewRect(0, 0, target.W, target.H),
		Dst:   NewRect(0, 0, target.W, target.H),
		Tiled: true,
	}}
}

// ratios returns the image and meter aspect ratios. The ratio constraint only
// applies when both meter dimensions were configured.
func ratios(target TargetSize, natural Size) (imageRatio, meterRatio float64, constrained bool) {
	if !target.WExplicit || !target.HExplicit {
		return 0, 0, false
	}
	imageRatio = float64(natural.W) / float64(natural.H)
	meterRatio = float64(target.W) / float64(target.H)
	return imageRatio, meterRatio, imageRatio != meterRatio
}

// layoutKeepRatio letterboxes: the whole bitmap is drawn into a centered rect
// that matches its aspect ratio.
func layoutKeepRatio(target TargetSize, natural Size) []CompositeOp {
	op := fullCopy(target.Size(), natural)
	imageRatio, meterRatio, constrained := ratios(target, natural)
	if !constrained {
		return []CompositeOp{op}
	}
	if imageRatio > meterRatio {
		op.Dst.H = target.W * natural.H / natural.W
		op.Dst.Y = (target.H - op.Dst.H) / 2
	} else {
		op.Dst.W = target.H * natural.W / natural.H
		op.Dst.X = (target.W - op.Dst.W) / 2
	}
	return []CompositeOp{op}
}

// layoutKeepRatioAndCrop fills the whole target and crops the bitmap around its
// center to the meter's aspect ratio.
func layoutKeepRatioAndCrop(target TargetSize, natural Size) []CompositeOp {
	op := fullCopy(target.Size(), natural)
	imageRatio, meterRatio, constrained := ratios(target, natural)
	if !constrained {
		return []CompositeOp{op}
	}
	if imageRatio > meterRatio {
		op.Src.W = int(float64(natural.H) * meterRatio)
		op.Src.X = (natural.W - op.Src.W) / 2
	} else {
		op.Src.H = int(float64(natural.W) / meterRatio)
		op.Src.Y = (natural.H - op.Src.H) / 2
	}
	return []CompositeOp{op}
}

// layoutNineSlice keeps corners at their source size, stretches edges along one
// axis and the center along both. With zero margins only the center remains,
// which is a plain stretch.
func layoutNineSlice(target, natural Size, m Margins) []CompositeOp {
	dw := target.W - m.Left - m.Right
	dh := target.H - m.Top - m.Bottom
	sw := natural.W - m.Left - m.Right
	sh := natural.H - m.Top - m.Bottom
	right, bottom := target.W-m.Right, target.H-m.Bottom
	srcRight, srcBottom := natural.W-m.Right, natural.H-m.Bottom

	ops := make([]CompositeOp, 0, 9)
	add := func(src, dst Rect) {
		// Opposing margins wider than the target leave nothing to draw.
		if src.Area() == 0 || dst.Area() == 0 {
			return
		}
		ops = append(ops, CompositeOp{Src: src, Dst: dst})
	}

	if m.Top > 0 {
		if m.Left > 0 {
			add(NewRect(0, 0, m.Left, m.Top), NewRect(0, 0, m.Left, m.Top))
		}
		add(NewRect(m.Left, 0, sw, m.Top), NewRect(m.Left, 0, dw, m.Top))
		if m.Right > 0 {
			add(NewRect(srcRight, 0, m.Right, m.Top), NewRect(right, 0, m.Right, m.Top))
		}
	}

	if m.Left > 0 {
		add(NewRect(0, m.Top, m.Left, sh), NewRect(0, m.Top, m.Left, dh))
	}
	add(NewRect(m.Left, m.Top, sw, sh), NewRect(m.Left, m.Top, dw, dh))
	if m.Right > 0 {
		add(NewRect(srcRight, m.Top, m.Right, sh), NewRect(right, m.Top, m.Right, dh))
	}

	if m.Bottom > 0 {
		if m.Left > 0 {
			add(NewRect(0, srcBottom, m.Left, m.Bottom), NewRect(0, bottom, m.Left, m.Bottom))
		}
		add(NewRect(m.Left, srcBottom, sw, m.Bottom), NewRect(m.Left, bottom, dw, m.Bottom))
		if m.Right > 0 {
			add(NewRect(srcRight, srcBottom, m.Right, m.Bottom), NewRect(right, bottom, m.Right, m.Bottom))
		}
	}
	return ops
}
