// Package emic2 provides a driver for the Emic 2 text-to-speech module.
//
// The module is a fire-and-forget serial device: commands are newline
// terminated ASCII, and the module prints a ':' prompt whenever it is ready
// for the next command (including after an utterance finishes). The driver
// tracks readiness by draining the receive side for prompts; callers that
// need a hard bound should combine Poll() with EstimateDuration().
package emic2

import (
	"errors"
	"time"

	"sensewear-go/x/conv"
)

// Port is the serial connection to the module. TryRead copies any
// already-received bytes without blocking (0 when the receive side is
// empty). The platform UART adapters and the host test fakes satisfy it.
type Port interface {
	Write(p []byte) (int, error)
	TryRead(p []byte) (int, error)
}

const prompt = ':'

// Errors returned by the driver.
var (
	ErrBusy        = errors.New("emic2: busy")
	ErrUnavailable = errors.New("emic2: engine unavailable")
)

// Config selects voice parameters. All fields are optional.
type Config struct {
	Voice   uint8  // 0..8, default 0
	RateWPM uint16 // 75..600 words per minute, default 200
	Volume  int8   // -48..18 dB, default 0
}

// Device wraps a serial connection to an Emic 2 module.
type Device struct {
	port Port
	buf  [32]byte
	busy bool
}

// New creates a new Emic 2 connection. The port must already be configured.
func New(port Port) Device {
	return Device{port: port}
}

// Configure applies voice settings. Any write failure means the engine is
// unreachable and is reported as ErrUnavailable.
func (d *Device) Configure(cfgs ...Config) error {
	c := Config{}
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.RateWPM == 0 {
		c.RateWPM = 200
	}
	if err := d.command('N', int64(c.Voice)); err != nil {
		return err
	}
	if err := d.command('W', int64(c.RateWPM)); err != nil {
		return err
	}
	return d.command('V', int64(c.Volume))
}

// Say starts speaking the given text. It returns immediately; the module
// speaks asynchronously. While an utterance is believed to be in progress,
// ErrBusy is returned (callers should Poll first).
func (d *Device) Say(text string) error {
	if d.busy && !d.Poll() {
		return ErrBusy
	}
	msg := make([]byte, 0, len(text)+2)
	msg = append(msg, 'S')
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\n' || ch == '\r' {
			ch = ' '
		}
		msg = append(msg, ch)
	}
	msg = append(msg, '\n')
	if _, err := d.port.Write(msg); err != nil {
		return ErrUnavailable
	}
	d.busy = true
	return nil
}

// Poll drains the receive side and reports whether the module is ready for a
// new command. A ':' prompt clears the busy flag.
func (d *Device) Poll() bool {
	for {
		n, err := d.port.TryRead(d.buf[:])
		if err != nil || n == 0 {
			break
		}
		for _, b := range d.buf[:n] {
			if b == prompt {
				d.busy = false
			}
		}
	}
	return !d.busy
}

// Busy reports the last known utterance state without touching the port.
func (d *Device) Busy() bool { return d.busy }

// ClearBusy force-marks the module ready. Callers that bound utterances with
// EstimateDuration call it once the bound has elapsed, so a lost ready prompt
// does not refuse every later Say.
func (d *Device) ClearBusy() { d.busy = false }

// EstimateDuration returns a conservative upper bound for speaking text:
// a fixed lead-in plus a per-character allowance at slow speech rates.
func EstimateDuration(text string) time.Duration {
	return 400*time.Millisecond + time.Duration(len(text))*90*time.Millisecond
}

func (d *Device) command(letter byte, val int64) error {
	var nbuf [20]byte
	msg := make([]byte, 0, 24)
	msg = append(msg, letter)
	msg = append(msg, conv.Itoa(nbuf[:], val)...)
	msg = append(msg, '\n')
	if _, err := d.port.Write(msg); err != nil {
		return ErrUnavailable
	}
	return nil
}
