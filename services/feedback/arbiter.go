package feedback

import "sensewear-go/types"

// Intent summarises what a cycle decided, mostly for telemetry and logs.
type Intent uint8

const (
	IntentSilence Intent = iota
	IntentSpeak
	IntentBuzz
)

var intentNames = [...]string{"silence", "speak", "buzz"}

func (i Intent) String() string {
	if int(i) >= len(intentNames) {
		return intentNames[0]
	}
	return intentNames[i]
}

// Decision is one cycle's output: an optional utterance plus the buzzer
// pattern to hold until the next cycle.
type Decision struct {
	Intent Intent
	Say    string
	Buzz   types.BuzzerValue
}

// Arbiter decides, per cycle, between announcing a colour and beeping a
// proximity pattern. A colour is announced only once it has held for a run
// of consecutive cycles, and never re-announced until it changes; unknown is
// never spoken. An obstacle in the immediate band suppresses new utterances.
// Announcements are two-phase: Decide proposes one, and the caller Confirms
// it once the speech engine has accepted the utterance.
type Arbiter struct {
	hold int

	candidate ColorLabel
	streak    int
	lastSaid  ColorLabel
	proposed  ColorLabel
}

func NewArbiter(holdCycles int) *Arbiter {
	if holdCycles < 1 {
		holdCycles = 1
	}
	return &Arbiter{hold: holdCycles}
}

// Reset clears the stability run and the last announcement, so the next
// stable colour is spoken again. Used when feedback is re-enabled.
func (a *Arbiter) Reset() {
	a.candidate = Unknown
	a.streak = 0
	a.lastSaid = Unknown
	a.proposed = Unknown
}

// Confirm commits the announcement proposed by the last Decide. Until the
// caller confirms, the label stays eligible, so a refused utterance is
// proposed again on the next cycle instead of dropped.
func (a *Arbiter) Confirm() {
	a.lastSaid = a.proposed
}

// Decide consumes one cycle's classified colour and proximity evaluation.
func (a *Arbiter) Decide(label ColorLabel, band ProximityBand, cadence types.BuzzerValue, speechInFlight bool) Decision {
	if label == a.candidate {
		a.streak++
	} else {
		a.candidate = label
		a.streak = 1
	}

	d := Decision{}
	if band != BandFar {
		d.Buzz = cadence
		d.Intent = IntentBuzz
	}

	stable := a.streak >= a.hold && label != Unknown && label != a.lastSaid
	if stable && !speechInFlight && band != BandImmediate {
		d.Say = label.String()
		d.Intent = IntentSpeak
		a.proposed = label
	}
	return d
}
