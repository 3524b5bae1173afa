// Package feedback runs the sensing loop of the wearable: every tick it
// samples the button, the colour sensor and the ranger, arbitrates between
// speaking a colour name and beeping a proximity pattern, and drives the
// actuators. All hardware is reached through the small interfaces below so
// the loop tests against fakes.
package feedback

import "sensewear-go/types"

// ColorSource yields raw RGBC samples.
type ColorSource interface {
	ReadRaw() (types.RawColor, error)
}

// RangeSource yields one distance per call; types.NoEchoMM when nothing
// reflected.
type RangeSource interface {
	ReadDistanceMM() int32
}

// ButtonSource reports the instantaneous logical button level.
type ButtonSource interface {
	Pressed() bool
}

// SpeechSink speaks short phrases. Say may refuse while an utterance is in
// flight; callers gate on InFlight.
type SpeechSink interface {
	Say(text string) error
	InFlight() bool
}

// BuzzerSink applies beep patterns. Set is cheap and idempotent, so the loop
// may post the desired pattern every tick.
type BuzzerSink interface {
	Set(v types.BuzzerValue)
	Off()
}

// Collaborators bundles everything the loop drives.
type Collaborators struct {
	Color  ColorSource
	Range  RangeSource
	Button ButtonSource
	Speech SpeechSink
	Buzzer BuzzerSink
}
