// Package tcs34725 provides a driver for the TCS34725 RGBC color sensor.
// It exposes a two-phase measurement API:
//
//	err := d.Trigger()       // enable the engine if needed (fast)
//	err := d.Collect(&s)     // fetch when ready; returns ErrNotReady while busy
//
// For convenience, d.Read(&s) performs trigger + bounded polling until ready.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
//
// The driver returns raw 16-bit channel counts; classification and any
// color-space maths belong to the caller.
package tcs34725

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x29

// Registers (command bit 0x80; 0xA0 selects auto-increment burst reads).
const (
	cmdBit  = 0x80
	cmdInc  = 0xA0
	regEn   = 0x00
	regAT   = 0x01
	regCtrl = 0x0F
	regID   = 0x12
	regStat = 0x13
	regCDat = 0x14 // CDATAL; C,R,G,B as 4 little-endian uint16s

	enPON = 0x01
	enAEN = 0x02

	statAVALID = 0x01
)

// Expected ID register values (TCS34725 / TCS34727).
const (
	idTCS34725 = 0x44
	idTCS34727 = 0x4D
)

// Gain selects the RGBC analog gain.
type Gain uint8

const (
	Gain1x Gain = iota
	Gain4x
	Gain16x
	Gain60x
)

// Errors returned by the driver.
var (
	ErrTimeout  = errors.New("tcs34725: timeout")
	ErrNotReady = errors.New("tcs34725: not ready")
	ErrBadID    = errors.New("tcs34725: unexpected device id")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x29 if zero.
	Address uint16
	// IntegrationTime per RGBC cycle. Rounded to the sensor's 2.4 ms steps.
	// Default 50 ms (good indoor SNR at 4x gain).
	IntegrationTime time.Duration
	// Gain defaults to Gain4x.
	Gain Gain
	// PollInterval is used by Read() between Collect() attempts. Default 5 ms.
	PollInterval time.Duration
	// CollectTimeout bounds the total wait in Read(). Default 200 ms.
	CollectTimeout time.Duration
}

// Device wraps an I2C connection to a TCS34725 sensor.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg     Config
	buf     [8]byte // reuse buffer to avoid allocations
	enabled bool
}

// Sample holds one raw RGBC reading in sensor counts.
type Sample struct {
	R, G, B uint16
	Clear   uint16
}

// New creates a new TCS34725 connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not touch
// the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

// Configure verifies the device ID and applies integration time and gain.
// The RGBC engine is left disabled; Trigger or Read enables it.
func (d *Device) Configure(cfgs ...Config) error {
	c := Config{}
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address != 0 {
		d.Address = c.Address
	}
	if c.IntegrationTime <= 0 {
		c.IntegrationTime = 50 * time.Millisecond
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Millisecond
	}
	if c.CollectTimeout <= 0 {
		c.CollectTimeout = 200 * time.Millisecond
	}
	d.cfg = c

	id, err := d.readReg(regID)
	if err != nil {
		return err
	}
	if id != idTCS34725 && id != idTCS34727 {
		return ErrBadID
	}

	// ATIME = 256 - (ms / 2.4); integer maths in tenths of ms.
	steps := uint32(c.IntegrationTime.Milliseconds()*10) / 24
	if steps < 1 {
		steps = 1
	}
	if steps > 255 {
		steps = 255
	}
	if err := d.writeReg(regAT, byte(256-steps)); err != nil {
		return err
	}
	return d.writeReg(regCtrl, byte(c.Gain))
}

// Trigger powers the oscillator and enables the RGBC engine. The first valid
// sample appears one integration time later; see d.TriggerHint().
func (d *Device) Trigger() error {
	if d.enabled {
		return nil
	}
	if err := d.writeReg(regEn, enPON); err != nil {
		return err
	}
	// Datasheet: 2.4 ms warm-up between PON and AEN.
	time.Sleep(3 * time.Millisecond)
	if err := d.writeReg(regEn, enPON|enAEN); err != nil {
		return err
	}
	d.enabled = true
	return nil
}

// TriggerHint returns the nominal conversion time to wait before Collect.
func (d *Device) TriggerHint() time.Duration {
	if d.cfg.IntegrationTime > 0 {
		return d.cfg.IntegrationTime
	}
	return 50 * time.Millisecond
}

// Disable stops the RGBC engine and powers the device down.
func (d *Device) Disable() error {
	d.enabled = false
	return d.writeReg(regEn, 0x00)
}

// Collect attempts to read one RGBC measurement. If no valid sample is
// available yet, ErrNotReady is returned. Any bus error is returned as-is.
func (d *Device) Collect(out *Sample) error {
	st, err := d.readReg(regStat)
	if err != nil {
		return err
	}
	if st&statAVALID == 0 {
		return ErrNotReady
	}
	data := d.buf[:8]
	if err := d.bus.Tx(d.Address, []byte{cmdInc | regCDat}, data); err != nil {
		return err
	}
	if out != nil {
		out.Clear = uint16(data[0]) | uint16(data[1])<<8
		out.R = uint16(data[2]) | uint16(data[3])<<8
		out.G = uint16(data[4]) | uint16(data[5])<<8
		out.B = uint16(data[6]) | uint16(data[7])<<8
	}
	return nil
}

// Read performs a full measurement cycle: Trigger followed by bounded polling
// until Collect succeeds or the timeout elapses.
func (d *Device) Read(out *Sample) error {
	if d.cfg.PollInterval == 0 {
		if err := d.Configure(); err != nil {
			return err
		}
	}
	if err := d.Trigger(); err != nil {
		return err
	}
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		err := d.Collect(out)
		switch err {
		case nil:
			return nil
		case ErrNotReady:
			if time.Now().After(deadline) {
				return ErrTimeout
			}
			time.Sleep(d.cfg.PollInterval)
			continue
		default:
			return err
		}
	}
}

func (d *Device) readReg(reg byte) (byte, error) {
	data := d.buf[:1]
	if err := d.bus.Tx(d.Address, []byte{cmdBit | reg}, data); err != nil {
		return 0, err
	}
	return data[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	return d.bus.Tx(d.Address, []byte{cmdBit | reg, val}, nil)
}
