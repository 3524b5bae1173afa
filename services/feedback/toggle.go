package feedback

// Toggle turns sampled button levels into debounced on/off flips. A flip
// fires once per confirmed press; the press must be released (for the same
// debounce window) before it can fire again.
type Toggle struct {
	enabled bool
	hold    int

	pressedN  int
	releasedN int
	latched   bool
}

// NewToggle requires debounceTicks+1 consecutive equal samples to confirm
// an edge.
func NewToggle(debounceTicks int, initial bool) *Toggle {
	if debounceTicks < 1 {
		debounceTicks = 1
	}
	return &Toggle{enabled: initial, hold: debounceTicks + 1}
}

// OnSample feeds one tick's button level and reports whether the enabled
// state flipped on this sample.
func (t *Toggle) OnSample(pressed bool) bool {
	if pressed {
		t.pressedN++
		t.releasedN = 0
	} else {
		t.releasedN++
		t.pressedN = 0
	}
	if !t.latched && t.pressedN >= t.hold {
		t.latched = true
		t.enabled = !t.enabled
		return true
	}
	if t.latched && t.releasedN >= t.hold {
		t.latched = false
	}
	return false
}

func (t *Toggle) Enabled() bool { return t.enabled }

// Set forces the state, bypassing the debounce window. Used by bus control
// verbs; the physical button keeps its own debounce.
func (t *Toggle) Set(enabled bool) { t.enabled = enabled }
