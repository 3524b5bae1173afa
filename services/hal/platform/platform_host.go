// services/hal/platform/platform_host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"sync"

	"sensewear-go/services/hal/core"

	"tinygo.org/x/drivers"
)

// ----------------------------- I²C (host) ------------------------------------

// FakeI2C implements tinygo drivers.I2C for host-side tests. OnTx, when set,
// scripts the device behind the bus; the default transaction succeeds and
// leaves the read buffer zeroed.
type FakeI2C struct {
	mu   sync.Mutex
	OnTx func(addr uint16, w, r []byte) error

	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
}

func (f *FakeI2C) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	f.LastTx.Addr = addr
	f.LastTx.W = append([]byte(nil), w...)
	f.LastTx.Rn = len(r)
	onTx := f.OnTx
	f.mu.Unlock()
	if onTx != nil {
		return onTx(addr, w, r)
	}
	for i := range r {
		r[i] = 0
	}
	return nil
}

type hostI2CFactory struct {
	buses map[string]*FakeI2C
}

func (f *hostI2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	if !ok {
		return nil, false
	}
	return b, true
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements core.GPIOPin for host-side tests.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    core.Pull
}

func (p *FakePin) ConfigureInput(pull core.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

// FakePinBank returns stable *FakePin instances per number.
type FakePinBank struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *FakePinBank) ByNumber(n int) (core.GPIOPin, bool) {
	p, _ := f.Get(n)
	return p, true
}

// Get exposes the underlying *FakePin for tests (e.g. to drive levels).
func (f *FakePinBank) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// ----------------------------- Tone (host) -----------------------------------

// FakeTone records the start/stop pattern driven onto the buzzer pin.
type FakeTone struct {
	mu     sync.Mutex
	on     bool
	FreqHz uint32
	Starts int
	Stops  int
}

func (t *FakeTone) Start(freqHz uint32) error {
	t.mu.Lock()
	t.on = true
	t.FreqHz = freqHz
	t.Starts++
	t.mu.Unlock()
	return nil
}

func (t *FakeTone) Stop() {
	t.mu.Lock()
	if t.on {
		t.Stops++
	}
	t.on = false
	t.mu.Unlock()
}

func (t *FakeTone) On() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on
}

func (t *FakeTone) Counts() (starts, stops int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Starts, t.Stops
}

type fakeToneFactory struct {
	mu    sync.Mutex
	tones map[int]*FakeTone
}

func (f *fakeToneFactory) ByPin(n int) (core.ToneOutput, bool) {
	t, _ := f.get(n)
	return t, true
}

func (f *fakeToneFactory) get(n int) (*FakeTone, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tones == nil {
		f.tones = make(map[int]*FakeTone)
	}
	t, ok := f.tones[n]
	if !ok {
		t = &FakeTone{}
		f.tones[n] = t
	}
	return t, true
}

// ----------------------------- UART (host) -----------------------------------

// FakeUART records writes and serves test-scripted reads.
type FakeUART struct {
	mu    sync.Mutex
	wrote []byte
	rx    []byte
}

func (u *FakeUART) Write(p []byte) (int, error) {
	u.mu.Lock()
	u.wrote = append(u.wrote, p...)
	u.mu.Unlock()
	return len(p), nil
}

func (u *FakeUART) TryRead(p []byte) (int, error) {
	u.mu.Lock()
	n := copy(p, u.rx)
	u.rx = u.rx[n:]
	u.mu.Unlock()
	return n, nil
}

// PushRX queues bytes the next TryRead will return.
func (u *FakeUART) PushRX(p []byte) {
	u.mu.Lock()
	u.rx = append(u.rx, p...)
	u.mu.Unlock()
}

// Wrote returns a copy of everything written so far.
func (u *FakeUART) Wrote() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]byte(nil), u.wrote...)
}

type hostUARTFactory struct {
	ports map[string]*FakeUART
}

func (f *hostUARTFactory) ByID(id string) (core.UARTPort, bool) {
	p, ok := f.ports[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// ----------------------------- Ranger (host) ----------------------------------

// FakeRanger returns a scripted distance. Zero value reads as "no echo".
type FakeRanger struct {
	mu     sync.Mutex
	distMM int32
}

func (r *FakeRanger) ReadDistanceMM() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distMM
}

// SetDistanceMM scripts the next readings; <= 0 means no echo.
func (r *FakeRanger) SetDistanceMM(mm int32) {
	r.mu.Lock()
	r.distMM = mm
	r.mu.Unlock()
}

type fakeRangerFactory struct {
	mu      sync.Mutex
	rangers map[[2]int]*FakeRanger
}

func (f *fakeRangerFactory) ByPins(trig, echo int) (core.Ranger, bool) {
	r, _ := f.get(trig, echo)
	return r, true
}

func (f *fakeRangerFactory) get(trig, echo int) (*FakeRanger, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rangers == nil {
		f.rangers = make(map[[2]int]*FakeRanger)
	}
	k := [2]int{trig, echo}
	r, ok := f.rangers[k]
	if !ok {
		r = &FakeRanger{}
		f.rangers[k] = r
	}
	return r, true
}

// ----------------------------- Bundle -----------------------------------------

// HostResources exposes the fakes behind a core.Resources bundle so tests can
// script sensor behaviour and observe actuator output.
type HostResources struct {
	I2CBuses map[string]*FakeI2C
	Pins     *FakePinBank
	tones    *fakeToneFactory
	UARTs    map[string]*FakeUART
	rangers  *fakeRangerFactory
}

func NewHostResources() *HostResources {
	return &HostResources{
		I2CBuses: map[string]*FakeI2C{"i2c0": {}, "i2c1": {}},
		Pins:     &FakePinBank{},
		tones:    &fakeToneFactory{},
		UARTs:    map[string]*FakeUART{"uart0": {}, "uart1": {}},
		rangers:  &fakeRangerFactory{},
	}
}

func (h *HostResources) Resources() core.Resources {
	return core.Resources{
		I2C:     &hostI2CFactory{buses: h.I2CBuses},
		Pins:    h.Pins,
		Tones:   h.tones,
		UARTs:   &hostUARTFactory{ports: h.UARTs},
		Rangers: h.rangers,
	}
}

// Tone exposes the fake tone output claimed for a pin.
func (h *HostResources) Tone(pin int) *FakeTone {
	t, _ := h.tones.get(pin)
	return t
}

// Ranger exposes the fake ranger claimed for a pin pair.
func (h *HostResources) Ranger(trig, echo int) *FakeRanger {
	r, _ := h.rangers.get(trig, echo)
	return r
}

// DefaultResources provides inert host resources; tests should use
// NewHostResources to keep hold of the fakes.
func DefaultResources() core.Resources {
	return NewHostResources().Resources()
}
