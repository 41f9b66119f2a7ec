package assembler

// Mode selects how station rotation is applied during a build. The three
// variants are mutually exclusive; there is no valid combination of them.
type Mode int

const (
	// Full rotates every station's layout and writes feed-angle files.
	Full Mode = iota
	// NoStationRotation reuses the reference station's unrotated layout for
	// every station and writes no feed-angle files.
	NoStationRotation
	// NoFeedRotation rotates station layouts normally but writes no
	// feed-angle files.
	NoFeedRotation
)

// Suffix returns the output directory name suffix for the mode.
func (m Mode) Suffix() string {
	switch m {
	case NoStationRotation:
		return "_no_rot"
	case NoFeedRotation:
		return "_no_feed_rot"
	default:
		return ""
	}
}

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case NoStationRotation:
		return "no-station-rotation"
	case NoFeedRotation:
		return "no-feed-rotation"
	default:
		return "unknown"
	}
}
