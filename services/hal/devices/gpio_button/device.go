// Package gpio_button owns the mode toggle button. The device only samples
// the level; debouncing lives in the consumer so it can align with its tick.
package gpio_button

import (
	"sensewear-go/errcode"
	"sensewear-go/services/hal/core"
	"sensewear-go/types"
)

type Device struct {
	pin    core.GPIOPin
	invert bool
}

// New configures the pin as a pulled-up input. invert is set for
// active-low wiring (pressed shorts the pin to ground).
func New(pin core.GPIOPin, invert bool) (*Device, error) {
	if err := pin.ConfigureInput(core.PullUp); err != nil {
		return nil, errcode.Wrap(errcode.UnknownPin, "gpio_button: configure", err)
	}
	return &Device{pin: pin, invert: invert}, nil
}

// Pressed reports the logical button state for the current instant.
func (d *Device) Pressed() bool {
	lvl := d.pin.Get()
	if d.invert {
		return !lvl
	}
	return lvl
}

func (d *Device) Info() types.Info {
	return types.Info{
		SchemaVersion: 1,
		Driver:        "gpio_button",
		Detail:        types.ButtonInfo{Pin: d.pin.Number(), Invert: d.invert},
	}
}
