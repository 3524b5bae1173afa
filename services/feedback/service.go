package feedback

import (
	"context"
	"time"

	"sensewear-go/bus"
	"sensewear-go/errcode"
	"sensewear-go/types"
	"sensewear-go/x/timex"
)

// Service runs the fixed-tick control loop. One goroutine owns all state;
// bus traffic (config updates, control verbs) is folded into the same select
// as the tick, so no locking is needed.
type Service struct {
	conn *bus.Connection
	col  Collaborators
	cfg  types.FeedbackConfig

	toggle *Toggle
	arb    *Arbiter

	colorFails     int
	speechFails    int
	colorDegraded  bool
	speechDegraded bool

	lastLabel ColorLabel
	lastBand  ProximityBand
	firstPub  bool
}

func New(conn *bus.Connection, col Collaborators, cfg types.FeedbackConfig) *Service {
	cfg = cfg.WithDefaults()
	return &Service{
		conn:     conn,
		col:      col,
		cfg:      cfg,
		toggle:   NewToggle(cfg.DebounceTicks, cfg.StartEnabled),
		arb:      NewArbiter(cfg.ColorHoldCycles),
		firstPub: true,
	}
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	var cfgCh, ctrlCh <-chan *bus.Message
	if s.conn != nil {
		cfgSub := s.conn.Subscribe(bus.T("config", "feedback"))
		ctrlSub := s.conn.Subscribe(bus.T("feedback", "control", "+"))
		defer cfgSub.Unsubscribe()
		defer ctrlSub.Unsubscribe()
		cfgCh = cfgSub.Channel()
		ctrlCh = ctrlSub.Channel()
	}

	s.publishEnabled()
	s.publishState("ready")
	println("[feedback] running, tick ms:", s.cfg.TickMs)

	tick := time.NewTicker(time.Duration(s.cfg.TickMs) * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.col.Buzzer.Off()
			s.publishState("stopped")
			println("[feedback] stopped")
			return
		case m := <-cfgCh:
			s.applyConfig(m, tick)
		case m := <-ctrlCh:
			s.handleControl(m)
		case <-tick.C:
			s.cycle()
		}
	}
}

// cycle is one tick: button, then sensors, then arbitration, then actuators.
// Strictly ordered so a confirmed toggle-off silences everything before any
// sensing happens.
func (s *Service) cycle() {
	if s.toggle.OnSample(s.col.Button.Pressed()) {
		s.onEnabledFlip()
	}
	if !s.toggle.Enabled() {
		return
	}

	label := Unknown
	var raw types.RawColor
	raw, err := s.col.Color.ReadRaw()
	if err != nil {
		s.colorFails++
		s.noteHealth("color", &s.colorDegraded, s.colorFails, err)
	} else {
		s.colorFails = 0
		s.noteHealth("color", &s.colorDegraded, 0, nil)
		label = Classify(raw)
	}

	dist := s.col.Range.ReadDistanceMM()
	band, cadence := Evaluate(dist)

	s.publishTelemetry(raw, label, dist, band)

	d := s.arb.Decide(label, band, cadence, s.col.Speech.InFlight())
	if d.Say != "" {
		if err := s.col.Speech.Say(d.Say); err != nil {
			s.speechFails++
			s.noteHealth("speech", &s.speechDegraded, s.speechFails, err)
		} else {
			s.arb.Confirm()
			s.speechFails = 0
			s.noteHealth("speech", &s.speechDegraded, 0, nil)
			println("[feedback] say:", d.Say)
		}
	}
	s.col.Buzzer.Set(d.Buzz)
}

func (s *Service) onEnabledFlip() {
	enabled := s.toggle.Enabled()
	if enabled {
		println("[feedback] enabled")
		// Forget the last announcement so the current colour is spoken
		// again after a pause.
		s.arb.Reset()
	} else {
		println("[feedback] disabled")
		s.col.Buzzer.Off()
	}
	s.publishEnabled()
}

func (s *Service) publishState(level string) {
	if s.conn == nil {
		return
	}
	st := types.ServiceState{Level: level, Status: "loop", TS: timex.NowMs()}
	s.conn.Publish(s.conn.NewMessage(bus.T("feedback", "state"), st, true))
}

func (s *Service) publishEnabled() {
	if s.conn == nil {
		return
	}
	v := types.EnabledValue{Enabled: s.toggle.Enabled()}
	s.conn.Publish(s.conn.NewMessage(bus.T("feedback", "enabled"), v, true))
}

func (s *Service) publishTelemetry(raw types.RawColor, label ColorLabel, dist int32, band ProximityBand) {
	if s.conn == nil {
		return
	}
	if s.firstPub || label != s.lastLabel {
		v := types.ColorValue{Raw: raw, Label: label.String()}
		s.conn.Publish(s.conn.NewMessage(bus.T("feedback", "color"), v, true))
		s.lastLabel = label
	}
	if s.firstPub || band != s.lastBand {
		v := types.ProximityValue{DistMM: dist, Band: band.String()}
		s.conn.Publish(s.conn.NewMessage(bus.T("feedback", "proximity"), v, true))
		s.lastBand = band
	}
	s.firstPub = false
}

// noteHealth publishes retained degraded/up transitions for a collaborator.
// fails == 0 marks recovery.
func (s *Service) noteHealth(name string, degraded *bool, fails int, cause error) {
	if fails == 0 {
		if !*degraded {
			return
		}
		*degraded = false
		println("[feedback]", name, "recovered")
		s.publishHealth(name, types.LinkUp, "")
		return
	}
	if *degraded || fails < s.cfg.DegradedAfter {
		return
	}
	*degraded = true
	println("[feedback]", name, "degraded:", cause.Error())
	s.publishHealth(name, types.LinkDegraded, string(errcode.Of(cause)))
}

func (s *Service) publishHealth(name string, link types.Link, errStr string) {
	if s.conn == nil {
		return
	}
	st := types.CapabilityStatus{Link: link, TS: timex.NowMs(), Error: errStr}
	s.conn.Publish(s.conn.NewMessage(bus.T("feedback", "health", name), st, true))
}

func (s *Service) applyConfig(m *bus.Message, tick *time.Ticker) {
	cfg, ok := m.Payload.(types.FeedbackConfig)
	if !ok {
		if p, okp := m.Payload.(*types.FeedbackConfig); okp && p != nil {
			cfg, ok = *p, true
		}
	}
	if !ok {
		println("[feedback] config: bad payload")
		return
	}
	cfg = cfg.WithDefaults()

	if cfg.TickMs != s.cfg.TickMs {
		tick.Reset(time.Duration(cfg.TickMs) * time.Millisecond)
	}
	if cfg.DebounceTicks != s.cfg.DebounceTicks {
		s.toggle = NewToggle(cfg.DebounceTicks, s.toggle.Enabled())
	}
	if cfg.ColorHoldCycles != s.cfg.ColorHoldCycles {
		arb := NewArbiter(cfg.ColorHoldCycles)
		arb.lastSaid = s.arb.lastSaid
		s.arb = arb
	}
	s.cfg = cfg
	println("[feedback] config applied, tick ms:", cfg.TickMs)
}

func (s *Service) handleControl(m *bus.Message) {
	verb, _ := m.Topic.At(2).(string)
	prev := s.toggle.Enabled()
	switch verb {
	case "toggle":
		s.toggle.Set(!prev)
	case "enable":
		s.toggle.Set(true)
	case "disable":
		s.toggle.Set(false)
	default:
		if m.CanReply() {
			s.conn.Reply(m, types.ErrorReply{Error: string(errcode.Unsupported)}, false)
		}
		return
	}
	if s.toggle.Enabled() != prev {
		s.onEnabledFlip()
	}
	if m.CanReply() {
		s.conn.Reply(m, types.OKReply{OK: true}, false)
	}
}
