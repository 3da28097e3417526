package meter

// LayoutMode selects how a bitmap is fitted into the meter rectangle.
type LayoutMode uint8

const (
	// LayoutNone stretches the bitmap, or nine-slices it when margins are set.
	LayoutNone LayoutMode = iota
	LayoutTile
	LayoutKeepRatio
	LayoutKeepRatioAndCrop
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutNone:
		return "None"
	case LayoutTile:
		return "Tile"
	case LayoutKeepRatio:
		return "KeepRatio"
	case LayoutKeepRatioAndCrop:
		return "KeepRatioAndCrop"
	default:
		return "Unknown"
	}
}

// SelectLayoutMode maps the Tile and PreserveAspectRatio option values to a
// mode. A non-zero tile flag wins. Aspect codes other than 0 and 2 fall back to
// KeepRatio.
func SelectLayoutMode(tile, preserveAspectRatio int) LayoutMode {
	if tile != 0 {
		return LayoutTile
	}
	switch preserveAspectRatio {
	case 0:
		return LayoutNone
	case 2:
		return LayoutKeepRatioAndCrop
	default:
		return LayoutKeepRatio
	}
}
