package ui

// TriggerMode decides what happens after a frame has been drawn.
type TriggerMode int

const (
	// TriggerAuto captures the next frame immediately, giving a scrolling display.
	TriggerAuto TriggerMode = iota
	// TriggerSingle keeps the frame on screen until reset.
	TriggerSingle
)

// ParseTriggerMode maps a flag value to a TriggerMode.
func ParseTriggerMode(s string) (TriggerMode, bool) {
	switch s {
	case "auto":
		return TriggerAuto, true
	case "single":
		return TriggerSingle, true
	}
	return TriggerAuto, false
}

// Next cycles to the next trigger mode.
func (t TriggerMode) Next() TriggerMode {
	switch t {
	case TriggerAuto:
		return TriggerSingle
	default:
		return TriggerAuto
	}
}

// String returns the name of the trigger mode.
func (t TriggerMode) String() string {
	switch t {
	case TriggerSingle:
		return "single"
	default:
		return "auto"
	}
}

// Icon returns a visual indicator for the trigger mode.
func (t TriggerMode) Icon() string {
	switch t {
	case TriggerSingle:
		return "[single]"
	default:
		return "[auto]"
	}
}
