package types

// ---- Public HAL configuration ----

type HALConfig struct {
	Color  ColorConfig  `json:"color"`
	Range  RangeConfig  `json:"range"`
	Button ButtonConfig `json:"button"`
	Buzzer BuzzerConfig `json:"buzzer"`
	Speech SpeechConfig `json:"speech"`
}

type ColorConfig struct {
	Bus  string `json:"bus"`            // I2C bus id, e.g. "i2c0"
	Addr uint16 `json:"addr,omitempty"` // defaults to the TCS34725 address
}

type RangeConfig struct {
	TrigPin int `json:"trig_pin"`
	EchoPin int `json:"echo_pin"`
}

type ButtonConfig struct {
	Pin int `json:"pin"`
	// Invert maps a pulled-up, active-low line to logical "pressed".
	Invert bool `json:"invert,omitempty"`
}

type BuzzerConfig struct {
	Pin    int    `json:"pin"`
	FreqHz uint32 `json:"freq_hz,omitempty"` // tone frequency, default 440
}

type SpeechConfig struct {
	UART    string `json:"uart"` // UART port id, e.g. "uart0"
	RateWPM uint16 `json:"rate_wpm,omitempty"`
	Volume  int8   `json:"volume,omitempty"`
}

// ---- Feedback service configuration ----

// FeedbackConfig tunes the sensing loop. Zero fields take defaults; the
// numeric constants were calibrated on the prototype unit and should be
// re-tuned per sensor batch.
type FeedbackConfig struct {
	TickMs uint32 `json:"tick_ms"` // loop period, default 100

	// Toggle debounce window, expressed in loop ticks.
	DebounceTicks int `json:"debounce_ticks"` // default 1

	// A new color label must persist this many consecutive cycles before
	// it is announced.
	ColorHoldCycles int `json:"color_hold_cycles"` // default 3

	// Consecutive collaborator read failures before a degraded warning.
	DegradedAfter int `json:"degraded_after"` // default 5

	// Whether the system starts enabled.
	StartEnabled bool `json:"start_enabled"`
}

func (c FeedbackConfig) WithDefaults() FeedbackConfig {
	if c.TickMs == 0 {
		c.TickMs = 100
	}
	if c.DebounceTicks <= 0 {
		c.DebounceTicks = 1
	}
	if c.ColorHoldCycles <= 0 {
		c.ColorHoldCycles = 3
	}
	if c.DegradedAfter <= 0 {
		c.DegradedAfter = 5
	}
	return c
}
