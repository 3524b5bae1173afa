// services/hal/platform/platform_rp2xxx.go
//go:build rp2040 || rp2350

package platform

import (
	"context"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hcsr04"
	"tinygo.org/x/drivers/tone"

	"sensewear-go/services/hal/core"
	"sensewear-go/x/timex"
)

// -----------------------------------------------------------------------------
// Defaults used on Raspberry Pi Pico / Pico 2 (RP2 family)
// -----------------------------------------------------------------------------

// DefaultResources configures i2c0/i2c1 on board-default pins at 400 kHz,
// uart0/uart1 at 9600 baud (the Emic 2 power-on rate), direct GP-numbered
// GPIO, PWM tone outputs, and HC-SR04 rangers on arbitrary pin pairs.
func DefaultResources() core.Resources {
	i2c := &rp2I2CFactory{buses: make(map[string]drivers.I2C)}

	b0 := machine.I2C0
	_ = b0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	i2c.buses["i2c0"] = b0

	b1 := machine.I2C1
	_ = b1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C1_SDA_PIN,
		SCL:       machine.I2C1_SCL_PIN,
	})
	i2c.buses["i2c1"] = b1

	uarts := &rp2UARTFactory{ports: make(map[string]*rp2UART)}
	_ = uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 9600,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	uarts.ports["uart0"] = &rp2UART{u: uartx.UART0}
	_ = uartx.UART1.Configure(uartx.UARTConfig{
		BaudRate: 9600,
		TX:       machine.UART1_TX_PIN,
		RX:       machine.UART1_RX_PIN,
	})
	uarts.ports["uart1"] = &rp2UART{u: uartx.UART1}

	return core.Resources{
		I2C:     i2c,
		Pins:    rp2PinFactory{},
		Tones:   rp2ToneFactory{},
		UARTs:   uarts,
		Rangers: rp2RangerFactory{},
	}
}

// ---- I²C ----

type rp2I2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *rp2I2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// ---- GPIO ----

// rp2PinFactory maps logical numbers directly to machine.Pin(n). This matches
// Pico/Pico 2 GP numbering.
type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (core.GPIOPin, bool) {
	// Constrain to RP2's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull core.Pull) error {
	var mode machine.PinMode
	switch pull {
	case core.PullUp:
		mode = machine.PinInputPullup
	case core.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

// ---- Tone (buzzer PWM) ----

type rp2ToneFactory struct{}

func (rp2ToneFactory) ByPin(n int) (core.ToneOutput, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	pin := machine.Pin(n)
	sliceNum, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil, false
	}
	pwm := pwmBySlice(sliceNum)
	if pwm == nil {
		return nil, false
	}
	sp, err := tone.New(pwm, pin)
	if err != nil {
		return nil, false
	}
	return &rp2Tone{sp: sp}, true
}

type rp2Tone struct {
	sp tone.Speaker
}

func (t *rp2Tone) Start(freqHz uint32) error {
	if freqHz == 0 {
		t.sp.Stop()
		return nil
	}
	return t.sp.SetPeriod(timex.PeriodFromHz(freqHz))
}

func (t *rp2Tone) Stop() { t.sp.Stop() }

func pwmBySlice(slice uint8) tone.PWM {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	}
	return nil
}

// ---- UART ----

type rp2UARTFactory struct {
	ports map[string]*rp2UART
}

func (f *rp2UARTFactory) ByID(id string) (core.UARTPort, bool) {
	u, ok := f.ports[id]
	if !ok {
		return nil, false
	}
	return u, true
}

// rp2UART adapts uartx to core.UARTPort. uartx only exposes a blocking,
// context-aware receive; a pre-cancelled context turns it into a
// drain-what-is-buffered read.
type rp2UART struct {
	u *uartx.UART
}

func (p *rp2UART) Write(b []byte) (int, error) { return p.u.Write(b) }

func (p *rp2UART) TryRead(b []byte) (int, error) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := p.u.RecvSomeContext(ctx, b)
	if err != nil {
		// Cancelled with nothing buffered.
		return 0, nil
	}
	return n, nil
}

// ---- Ultrasonic ranging ----

type rp2RangerFactory struct{}

func (rp2RangerFactory) ByPins(trig, echo int) (core.Ranger, bool) {
	if trig < 0 || trig > 28 || echo < 0 || echo > 28 {
		return nil, false
	}
	d := hcsr04.New(machine.Pin(trig), machine.Pin(echo))
	d.Configure()
	return &rp2Ranger{d: d}, true
}

type rp2Ranger struct {
	d hcsr04.Device
}

// ReadDistanceMM blocks for at most the sensor's echo window (~23 ms at the
// 4 m limit). The hcsr04 driver reports 0 when no echo arrives in time.
func (r *rp2Ranger) ReadDistanceMM() int32 {
	return r.d.ReadDistance()
}
