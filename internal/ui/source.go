package ui

// TiltSource selects what feeds the orientation tracker.
type TiltSource int

const (
	TiltKeys TiltSource = iota
	TiltReplay
)

// Next cycles to the next tilt source. Without a recording only the
// keyboard is available.
func (s TiltSource) Next(haveReplay bool) TiltSource {
	if s == TiltKeys && haveReplay {
		return TiltReplay
	}
	return TiltKeys
}

// String returns the name of the tilt source.
func (s TiltSource) String() string {
	switch s {
	case TiltReplay:
		return "replay"
	default:
		return "keys"
	}
}

// Icon returns a visual indicator for the tilt source.
func (s TiltSource) Icon() string {
	switch s {
	case TiltReplay:
		return "[replay]"
	default:
		return ""
	}
}
