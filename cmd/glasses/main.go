// Command glasses is the wearable's firmware entrypoint: it wires the
// platform resources into the HAL, announces capabilities on the bus, and
// hands the devices to the feedback loop.
package main

import (
	"context"
	"time"

	"sensewear-go/bus"
	"sensewear-go/services/feedback"
	"sensewear-go/services/hal"
	"sensewear-go/services/hal/platform"
	"sensewear-go/services/heartbeat"
	"sensewear-go/types"
)

// Prototype unit wiring.
var halConfig = types.HALConfig{
	Color:  types.ColorConfig{Bus: "i2c0"},
	Range:  types.RangeConfig{TrigPin: 17, EchoPin: 13},
	Button: types.ButtonConfig{Pin: 18, Invert: true},
	Buzzer: types.BuzzerConfig{Pin: 27, FreqHz: 440},
	Speech: types.SpeechConfig{UART: "uart0", RateWPM: 200},
}

func main() {
	// Give the USB serial console time to enumerate so boot logs land.
	time.Sleep(3 * time.Second)
	ctx := context.Background()

	println("[main] sensewear booting")
	b := bus.NewBus(8)
	res := platform.DefaultResources()

	h, err := hal.New(ctx, b.NewConnection("hal"), res, halConfig)
	if err != nil {
		println("[main] hal init failed:", err.Error())
		return
	}
	defer h.Close()
	println("[main] hal up")

	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	// Retain the loop tuning so a console can read and replace it.
	boot := b.NewConnection("boot")
	fbCfg := types.FeedbackConfig{StartEnabled: true}.WithDefaults()
	boot.Publish(boot.NewMessage(bus.T("config", "feedback"), fbCfg, true))

	// Surface degraded sensors on the console.
	mon := boot.Subscribe(bus.T("feedback", "health", "+"))
	go func() {
		for m := range mon.Channel() {
			name, _ := m.Topic.At(2).(string)
			if st, ok := m.Payload.(types.CapabilityStatus); ok {
				println("[main] health:", name, string(st.Link), st.Error)
			}
		}
	}()

	svc := feedback.New(b.NewConnection("feedback"), feedback.Collaborators{
		Color:  h.Color,
		Range:  h.Range,
		Button: h.Button,
		Speech: h.Speech,
		Buzzer: h.Buzzer,
	}, fbCfg)
	svc.Run(ctx)
}
