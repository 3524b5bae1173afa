package types

// ---- Common service state (retained) ----

type ServiceState struct {
	Level  string `json:"level"`  // e.g. "idle", "ready", "degraded", "stopped"
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ms"`
}

// Link is the link/state reported for a capability.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

type CapabilityStatus struct {
	Link  Link   `json:"link"`
	TS    int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"`
}

// ---- Capability kinds & info ----

type Kind string

const (
	KindColor  Kind = "color"
	KindRange  Kind = "range"
	KindButton Kind = "button"
	KindBuzzer Kind = "buzzer"
	KindSpeech Kind = "speech"
)

// Info envelope each device/cap exposes (retained).
type Info struct {
	SchemaVersion int         `json:"schema_version"`
	Driver        string      `json:"driver"`
	Detail        interface{} `json:"detail,omitempty"`
}

// ---- Raw sensor samples ----

// RawColor is one RGBC sample in sensor-native counts.
type RawColor struct {
	R, G, B uint16
	Clear   uint16
}

// NoEchoMM is the sentinel distance for a ranging timeout ("no echo").
const NoEchoMM int32 = -1

// ---- Capability payloads (bus telemetry) ----

type ColorValue struct {
	Raw   RawColor `json:"raw"`
	Label string   `json:"label,omitempty"`
}

type RangeValue struct {
	// Millimetres; NoEchoMM when the ranger saw no echo.
	DistMM int32 `json:"dist_mm"`
}

type ButtonValue struct{ Pressed bool }

type BuzzerValue struct {
	// PeriodMs == 0 and Continuous == false means silent.
	PeriodMs   uint32 `json:"period_ms"`
	Continuous bool   `json:"continuous"`
}

type SpeechValue struct {
	Text     string `json:"text"`
	InFlight bool   `json:"in_flight"`
}

// ---- Feedback loop telemetry ----

type ProximityValue struct {
	DistMM int32  `json:"dist_mm"`
	Band   string `json:"band"`
}

type EnabledValue struct {
	Enabled bool `json:"enabled"`
}

// ---- Capability info details ----

type ColorInfo struct {
	Sensor string // "tcs34725"
	Addr   uint16
	Bus    string // e.g. "i2c0"
}

type RangeInfo struct {
	Sensor  string // "hcsr04"
	TrigPin int
	EchoPin int
}

type ButtonInfo struct {
	Pin    int
	Invert bool
}

type BuzzerInfo struct {
	Pin    int
	FreqHz uint32
}

type SpeechInfo struct {
	Engine string // "emic2"
	UART   string // e.g. "uart0"
}

// Generic replies
type OKReply struct {
	OK bool `json:"ok"`
}
type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
