// Package speech owns the Emic 2 text-to-speech module. The module has no
// completion interrupt, so in-flight tracking combines the serial prompt with
// a duration estimate as a fallback when the prompt is missed.
package speech

import (
	"time"

	"sensewear-go/drivers/emic2"
	"sensewear-go/errcode"
	"sensewear-go/types"
)

type Device struct {
	drv      emic2.Device
	uartID   string
	estimate func(string) time.Duration
	deadline time.Time
}

// New configures the module's voice settings over the given port.
func New(port emic2.Port, cfg types.SpeechConfig) (*Device, error) {
	d := &Device{
		drv:      emic2.New(port),
		uartID:   cfg.UART,
		estimate: emic2.EstimateDuration,
	}
	err := d.drv.Configure(emic2.Config{RateWPM: cfg.RateWPM, Volume: cfg.Volume})
	if err != nil {
		return nil, errcode.Wrap(errcode.EngineUnavailable, "speech: configure", err)
	}
	return d, nil
}

// Say starts an utterance. While one is in flight the call is refused with
// errcode.Busy; callers gate on InFlight and treat Busy as a skipped turn.
func (d *Device) Say(text string) error {
	if d.InFlight() {
		return errcode.Wrap(errcode.Busy, "speech: say", emic2.ErrBusy)
	}
	// Past the deadline a missing prompt is written off as lost; the driver
	// must accept the next utterance regardless.
	d.drv.ClearBusy()
	if err := d.drv.Say(text); err != nil {
		return errcode.Wrap(errcode.EngineUnavailable, "speech: say", err)
	}
	d.deadline = time.Now().Add(d.estimate(text))
	return nil
}

// InFlight reports whether an utterance is believed to be in progress. The
// ready prompt clears it early; otherwise the estimate deadline bounds it.
func (d *Device) InFlight() bool {
	if d.drv.Poll() {
		return false
	}
	return time.Now().Before(d.deadline)
}

func (d *Device) Info() types.Info {
	return types.Info{
		SchemaVersion: 1,
		Driver:        "emic2",
		Detail:        types.SpeechInfo{Engine: "emic2", UART: d.uartID},
	}
}
