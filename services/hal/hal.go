// Package hal builds the device layer from platform resources and announces
// each capability on the bus as retained info/status pairs under
// hal/cap/<kind>/....
package hal

import (
	"context"

	"sensewear-go/bus"
	"sensewear-go/errcode"
	"sensewear-go/services/hal/core"
	"sensewear-go/services/hal/devices/buzzer"
	"sensewear-go/services/hal/devices/colorsense"
	"sensewear-go/services/hal/devices/gpio_button"
	"sensewear-go/services/hal/devices/ranger"
	"sensewear-go/services/hal/devices/speech"
	"sensewear-go/types"
	"sensewear-go/x/timex"
)

type HAL struct {
	conn *bus.Connection

	Color  *colorsense.Device
	Range  *ranger.Device
	Button *gpio_button.Device
	Buzzer *buzzer.Device
	Speech *speech.Device

	cancel context.CancelFunc
}

// New builds every device the unit needs. Any missing resource or failed
// probe is fatal: the wearable is not useful with a partial device set, and
// a miswired unit should fail loudly at boot.
func New(ctx context.Context, conn *bus.Connection, res core.Resources, cfg types.HALConfig) (*HAL, error) {
	h := &HAL{conn: conn}

	i2c, ok := res.I2C.ByID(cfg.Color.Bus)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownBus, "hal: color bus "+cfg.Color.Bus, nil)
	}
	color, err := colorsense.New(i2c, cfg.Color.Bus)
	if err != nil {
		return nil, err
	}
	h.Color = color

	rng, ok := res.Rangers.ByPins(cfg.Range.TrigPin, cfg.Range.EchoPin)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownPin, "hal: ranger pins", nil)
	}
	h.Range = ranger.New(rng, cfg.Range.TrigPin, cfg.Range.EchoPin)

	pin, ok := res.Pins.ByNumber(cfg.Button.Pin)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownPin, "hal: button pin", nil)
	}
	btn, err := gpio_button.New(pin, cfg.Button.Invert)
	if err != nil {
		return nil, err
	}
	h.Button = btn

	out, ok := res.Tones.ByPin(cfg.Buzzer.Pin)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownPin, "hal: buzzer pin", nil)
	}
	h.Buzzer = buzzer.New(out, cfg.Buzzer.Pin, cfg.Buzzer.FreqHz)

	port, ok := res.UARTs.ByID(cfg.Speech.UART)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownUART, "hal: speech uart "+cfg.Speech.UART, nil)
	}
	sp, err := speech.New(port, cfg.Speech)
	if err != nil {
		return nil, err
	}
	h.Speech = sp

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	go h.Buzzer.Run(runCtx)

	h.announce(types.KindColor, h.Color.Info())
	h.announce(types.KindRange, h.Range.Info())
	h.announce(types.KindButton, h.Button.Info())
	h.announce(types.KindBuzzer, h.Buzzer.Info())
	h.announce(types.KindSpeech, h.Speech.Info())

	return h, nil
}

// Close silences actuators, powers the colour engine down and marks every
// capability link down.
func (h *HAL) Close() {
	h.Buzzer.Off()
	if h.cancel != nil {
		h.cancel()
	}
	h.Color.Close()
	for _, k := range []types.Kind{
		types.KindColor, types.KindRange, types.KindButton, types.KindBuzzer, types.KindSpeech,
	} {
		h.SetLink(k, types.LinkDown, "")
	}
}

// SetLink publishes the retained link state for one capability. The feedback
// loop uses it to flag degraded sensors.
func (h *HAL) SetLink(kind types.Kind, link types.Link, errStr string) {
	if h.conn == nil {
		return
	}
	st := types.CapabilityStatus{Link: link, TS: timex.NowMs(), Error: errStr}
	h.conn.Publish(h.conn.NewMessage(bus.T("hal", "cap", string(kind), "status"), st, true))
}

func (h *HAL) announce(kind types.Kind, info types.Info) {
	if h.conn == nil {
		return
	}
	h.conn.Publish(h.conn.NewMessage(bus.T("hal", "cap", string(kind), "info"), info, true))
	h.SetLink(kind, types.LinkUp, "")
}
