// services/hal/core/types.go
package core

import (
	"tinygo.org/x/drivers"
)

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// ---- I²C ----

// I2CBusFactory injects configured I²C instances by id.
// Uses the TinyGo drivers.I2C interface to remain compatible on MCU builds.
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// ---- Tone output (buzzer) ----

// ToneOutput drives a PWM pin at an audible frequency. Start is idempotent;
// Stop silences the pin.
type ToneOutput interface {
	Start(freqHz uint32) error
	Stop()
}

// ToneFactory claims a PWM-capable pin as a tone output.
type ToneFactory interface {
	ByPin(n int) (ToneOutput, bool)
}

// ---- UART ----

// UARTPort is the subset of a serial port the speech driver needs.
// TryRead copies already-received bytes without blocking; 0 means the
// receive side is empty right now.
type UARTPort interface {
	Write(p []byte) (int, error)
	TryRead(p []byte) (int, error)
}

type UARTFactory interface {
	ByID(id string) (UARTPort, bool)
}

// ---- Ultrasonic ranging ----

// Ranger performs one bounded-time distance measurement in millimetres.
// A result <= 0 means no echo was seen within the timeout.
type Ranger interface {
	ReadDistanceMM() int32
}

// RangerFactory claims a trigger/echo pin pair as a ranger.
type RangerFactory interface {
	ByPins(trig, echo int) (Ranger, bool)
}

// ---- Platform resource bundle ----

// Resources carries the platform-provided factories the HAL builds from.
type Resources struct {
	I2C     I2CBusFactory
	Pins    PinFactory
	Tones   ToneFactory
	UARTs   UARTFactory
	Rangers RangerFactory
}
