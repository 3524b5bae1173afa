// Command boardcheck is an interactive bring-up console for a freshly wired
// unit: it builds the HAL directly and pokes each device from a prompt, so
// a miswired sensor is found before the feedback loop ever runs.
package main

import (
	"bufio"
	"context"
	"os"

	"github.com/google/shlex"

	"sensewear-go/bus"
	"sensewear-go/services/feedback"
	"sensewear-go/services/hal"
	"sensewear-go/services/hal/platform"
	"sensewear-go/types"
	"sensewear-go/x/conv"
)

var halConfig = types.HALConfig{
	Color:  types.ColorConfig{Bus: "i2c0"},
	Range:  types.RangeConfig{TrigPin: 17, EchoPin: 13},
	Button: types.ButtonConfig{Pin: 18, Invert: true},
	Buzzer: types.BuzzerConfig{Pin: 27, FreqHz: 440},
	Speech: types.SpeechConfig{UART: "uart0", RateWPM: 200},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	h, err := hal.New(ctx, b.NewConnection("hal"), platform.DefaultResources(), halConfig)
	if err != nil {
		println("boardcheck: hal init failed:", err.Error())
		return
	}
	defer h.Close()

	println("boardcheck ready, type 'help'")
	sc := bufio.NewScanner(os.Stdin)
	for prompt(); sc.Scan(); prompt() {
		args, err := shlex.Split(sc.Text())
		if err != nil {
			println("parse error:", err.Error())
			continue
		}
		if len(args) == 0 {
			continue
		}
		if !dispatch(h, args) {
			return
		}
	}
}

func prompt() { print("> ") }

// dispatch runs one command; false means exit.
func dispatch(h *hal.HAL, args []string) bool {
	switch args[0] {
	case "color":
		raw, err := h.Color.ReadRaw()
		if err != nil {
			println("color: read failed:", err.Error())
			return true
		}
		var buf [20]byte
		print("color: r=", string(conv.Utoa(buf[:], uint64(raw.R))))
		print(" g=", string(conv.Utoa(buf[:], uint64(raw.G))))
		print(" b=", string(conv.Utoa(buf[:], uint64(raw.B))))
		print(" clear=", string(conv.Utoa(buf[:], uint64(raw.Clear))))
		println(" label=" + feedback.Classify(raw).String())

	case "range":
		mm := h.Range.ReadDistanceMM()
		if mm == types.NoEchoMM {
			println("range: no echo")
			return true
		}
		band, _ := feedback.Evaluate(mm)
		var buf [20]byte
		println("range:", string(conv.Itoa(buf[:], int64(mm))), "mm, band", band.String())

	case "button":
		if h.Button.Pressed() {
			println("button: pressed")
		} else {
			println("button: released")
		}

	case "beep":
		if len(args) < 2 {
			println("usage: beep <period-ms>|cont|off")
			return true
		}
		switch args[1] {
		case "off":
			h.Buzzer.Off()
		case "cont":
			h.Buzzer.Set(types.BuzzerValue{Continuous: true})
		default:
			ms, ok := parseUint(args[1])
			if !ok {
				println("beep: bad period:", args[1])
				return true
			}
			h.Buzzer.Set(types.BuzzerValue{PeriodMs: uint32(ms)})
		}

	case "say":
		if len(args) < 2 {
			println("usage: say <text...>")
			return true
		}
		text := args[1]
		for _, w := range args[2:] {
			text += " " + w
		}
		if err := h.Speech.Say(text); err != nil {
			println("say failed:", err.Error())
		}

	case "help":
		println("commands:")
		println("  color              read one RGBC sample and classify it")
		println("  range              read one distance and band it")
		println("  button             sample the toggle button")
		println("  beep <ms>|cont|off drive the buzzer pattern")
		println("  say <text...>      speak a phrase")
		println("  exit               quit")

	case "exit", "quit":
		return false

	default:
		println("unknown command:", args[0], "(try 'help')")
	}
	return true
}

func parseUint(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint64(c-'0')
		if v > 1<<31 {
			return 0, false
		}
	}
	return v, true
}
