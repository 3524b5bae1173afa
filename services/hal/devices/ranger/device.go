// Package ranger owns the ultrasonic distance sensor.
package ranger

import (
	"sensewear-go/services/hal/core"
	"sensewear-go/types"
)

type Device struct {
	rng  core.Ranger
	trig int
	echo int
}

func New(rng core.Ranger, trig, echo int) *Device {
	return &Device{rng: rng, trig: trig, echo: echo}
}

// ReadDistanceMM performs one ping. Missing echoes are reported as
// types.NoEchoMM rather than an error; open space is a normal reading.
func (d *Device) ReadDistanceMM() int32 {
	mm := d.rng.ReadDistanceMM()
	if mm <= 0 {
		return types.NoEchoMM
	}
	return mm
}

func (d *Device) Info() types.Info {
	return types.Info{
		SchemaVersion: 1,
		Driver:        "hcsr04",
		Detail:        types.RangeInfo{Sensor: "hcsr04", TrigPin: d.trig, EchoPin: d.echo},
	}
}
