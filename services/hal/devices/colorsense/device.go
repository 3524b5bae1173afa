// Package colorsense owns the TCS34725 colour sensor and exposes bounded-time
// raw channel reads to the control loop.
package colorsense

import (
	"time"

	"tinygo.org/x/drivers"

	"sensewear-go/drivers/tcs34725"
	"sensewear-go/errcode"
	"sensewear-go/types"
)

type Device struct {
	drv   tcs34725.Device
	busID string
}

// New probes and configures the sensor. A missing or wrong chip is fatal to
// the caller; there is no feedback without colour input.
func New(bus drivers.I2C, busID string) (*Device, error) {
	d := &Device{drv: tcs34725.New(bus), busID: busID}
	err := d.drv.Configure(tcs34725.Config{
		IntegrationTime: 24 * time.Millisecond,
		Gain:            tcs34725.Gain4x,
		PollInterval:    5 * time.Millisecond,
		CollectTimeout:  50 * time.Millisecond,
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.SensorFault, "colorsense: configure", err)
	}
	return d, nil
}

// ReadRaw performs one measurement. It blocks for at most the driver's
// collect timeout (50 ms), well inside one control tick.
func (d *Device) ReadRaw() (types.RawColor, error) {
	var s tcs34725.Sample
	if err := d.drv.Read(&s); err != nil {
		return types.RawColor{}, errcode.Wrap(errcode.SensorFault, "colorsense: read", err)
	}
	return types.RawColor{R: s.R, G: s.G, B: s.B, Clear: s.Clear}, nil
}

// Close powers the sensing engine down.
func (d *Device) Close() {
	_ = d.drv.Disable()
}

// Info describes the capability for retained publication.
func (d *Device) Info() types.Info {
	return types.Info{
		SchemaVersion: 1,
		Driver:        "tcs34725",
		Detail:        types.ColorInfo{Sensor: "tcs34725", Addr: tcs34725.Address, Bus: d.busID},
	}
}
