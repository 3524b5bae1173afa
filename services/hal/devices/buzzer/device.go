// Package buzzer drives the proximity tone. A worker goroutine owns the
// timing so the control loop never blocks on a beep pattern; the loop just
// posts the latest desired pattern each tick.
package buzzer

import (
	"context"
	"time"

	"sensewear-go/services/hal/core"
	"sensewear-go/types"
)

// Beep on-time. The gap between beeps carries the distance information, so
// the audible pip itself stays short and constant.
const onTime = 60 * time.Millisecond

const minOffTime = 10 * time.Millisecond

type Device struct {
	out     core.ToneOutput
	pin     int
	freqHz  uint32
	updates chan types.BuzzerValue
}

func New(out core.ToneOutput, pin int, freqHz uint32) *Device {
	if freqHz == 0 {
		freqHz = 440
	}
	return &Device{
		out:     out,
		pin:     pin,
		freqHz:  freqHz,
		updates: make(chan types.BuzzerValue, 1),
	}
}

// Set posts the desired pattern. Latest wins; posting the current pattern is
// a no-op inside the worker, so callers may Set every tick.
func (d *Device) Set(v types.BuzzerValue) {
	for {
		select {
		case d.updates <- v:
			return
		default:
			select {
			case <-d.updates:
			default:
			}
		}
	}
}

// Off silences the buzzer.
func (d *Device) Off() {
	d.Set(types.BuzzerValue{})
}

// Run owns the tone output until ctx is cancelled. It must be running for
// Set to have any audible effect.
func (d *Device) Run(ctx context.Context) {
	defer d.out.Stop()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var cur types.BuzzerValue
	toneOn := false

	rearm := func(dt time.Duration) {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(dt)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case v := <-d.updates:
			if v == cur {
				continue
			}
			cur = v
			switch {
			case cur.Continuous:
				_ = d.out.Start(d.freqHz)
				toneOn = true
			case cur.PeriodMs == 0:
				d.out.Stop()
				toneOn = false
			default:
				// Restart the pattern phase-aligned to the change.
				_ = d.out.Start(d.freqHz)
				toneOn = true
				rearm(d.onFor(cur))
			}

		case <-timer.C:
			if cur.Continuous || cur.PeriodMs == 0 {
				continue
			}
			if toneOn {
				d.out.Stop()
				toneOn = false
				rearm(d.offFor(cur))
			} else {
				_ = d.out.Start(d.freqHz)
				toneOn = true
				rearm(d.onFor(cur))
			}
		}
	}
}

func (d *Device) onFor(v types.BuzzerValue) time.Duration {
	period := time.Duration(v.PeriodMs) * time.Millisecond
	if onTime*2 > period {
		return period / 2
	}
	return onTime
}

func (d *Device) offFor(v types.BuzzerValue) time.Duration {
	off := time.Duration(v.PeriodMs)*time.Millisecond - d.onFor(v)
	if off < minOffTime {
		off = minOffTime
	}
	return off
}

func (d *Device) Info() types.Info {
	return types.Info{
		SchemaVersion: 1,
		Driver:        "pwm_tone",
		Detail:        types.BuzzerInfo{Pin: d.pin, FreqHz: d.freqHz},
	}
}
