package platform

import (
	"sync"

	"tinygo.org/x/drivers"
)

// ----------------------------- SPI (host) ------------------------------------

// HostSPI implements drivers.SPI for host-side tests. It records every
// transfer together with the D/C level sampled from DC at the time.
type HostSPI struct {
	mu     sync.Mutex
	Mode   uint8
	FreqHz uint32
	DC     *FakePin
	Log    []SPIFrame
	// Reply is consumed by reads, in order.
	Reply []byte
}

// SPIFrame is one recorded transfer.
type SPIFrame struct {
	Data bool // D/C high
	W    []byte
	Rn   int
}

func (s *HostSPI) Tx(w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := true
	if s.DC != nil {
		data = s.DC.Get()
	}
	s.Log = append(s.Log, SPIFrame{Data: data, W: append([]byte(nil), w...), Rn: len(r)})
	for i := range r {
		if len(s.Reply) == 0 {
			r[i] = 0
			continue
		}
		r[i] = s.Reply[0]
		s.Reply = s.Reply[1:]
	}
	return nil
}

func (s *HostSPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := s.Tx([]byte{b}, r[:])
	return r[0], err
}

// Frames returns a copy of the transfer log.
func (s *HostSPI) Frames() []SPIFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SPIFrame(nil), s.Log...)
}

// Reset clears the transfer log.
func (s *HostSPI) Reset() {
	s.mu.Lock()
	s.Log = nil
	s.mu.Unlock()
}

var _ drivers.SPI = (*HostSPI)(nil)

// HostSPIFactory hands out one HostSPI per host id.
type HostSPIFactory struct {
	mu    sync.Mutex
	buses map[int]*HostSPI
}

func (f *HostSPIFactory) ByHost(host int, mode uint8, freqHz uint32) (drivers.SPI, bool) {
	b := f.Get(host)
	b.mu.Lock()
	b.Mode, b.FreqHz = mode, freqHz
	b.mu.Unlock()
	return b, true
}

// Get returns (creating if needed) the *HostSPI for host.
func (f *HostSPIFactory) Get(host int) *HostSPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.buses == nil {
		f.buses = make(map[int]*HostSPI)
	}
	b, ok := f.buses[host]
	if !ok {
		b = &HostSPI{}
		f.buses[host] = b
	}
	return b
}

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements drivers.I2C for host-side tests. Reads are served from
// Regs keyed by the register address written first (8- or 16-bit, big endian).
type HostI2C struct {
	mu     sync.Mutex
	FreqHz uint32
	Regs   map[uint16][]byte
	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
	Writes [][]byte
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastTx.Addr = addr
	h.LastTx.W = append([]byte(nil), w...)
	h.LastTx.Rn = len(r)
	if len(r) == 0 {
		h.Writes = append(h.Writes, append([]byte(nil), w...))
		return nil
	}
	var reg uint16
	switch len(w) {
	case 1:
		reg = uint16(w[0])
	case 2:
		reg = uint16(w[0])<<8 | uint16(w[1])
	}
	src := h.Regs[reg]
	for i := range r {
		r[i] = 0
		if i < len(src) {
			r[i] = src[i]
		}
	}
	return nil
}

// SetReg stores the bytes returned for reg.
func (h *HostI2C) SetReg(reg uint16, b ...byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Regs == nil {
		h.Regs = make(map[uint16][]byte)
	}
	h.Regs[reg] = append([]byte(nil), b...)
}

var _ drivers.I2C = (*HostI2C)(nil)

// HostI2CFactory creates inert host I²C buses on demand.
type HostI2CFactory struct {
	mu    sync.Mutex
	buses map[int]*HostI2C
}

func (f *HostI2CFactory) ByPort(port int, freqHz uint32) (drivers.I2C, bool) {
	b := f.Get(port)
	b.mu.Lock()
	b.FreqHz = freqHz
	b.mu.Unlock()
	return b, true
}

// Get returns (creating if needed) the bus for port.
func (f *HostI2CFactory) Get(port int) *HostI2C {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.buses == nil {
		f.buses = make(map[int]*HostI2C)
	}
	b, ok := f.buses[port]
	if !ok {
		b = &HostI2C{}
		f.buses[port] = b
	}
	return b
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIO for host-side tests.
type FakePin struct {
	mu     sync.RWMutex
	number int
	level  bool
	edges  int
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	if p.level != level {
		p.edges++
	}
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// Edges counts level changes since creation.
func (p *FakePin) Edges() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.edges
}

// HostPinFactory returns stable *FakePin instances per number.
// Lines start high (idle level for CS, reset and open-drain interrupts).
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (GPIO, bool) {
	return f.Pin(n), true
}

// Pin exposes the underlying *FakePin for tests.
func (f *HostPinFactory) Pin(n int) *FakePin {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n, level: true}
		f.pins[n] = p
	}
	return p
}

// ----------------------------- PWM (host) ------------------------------------

// FakePWM records the configured period and the last level.
type FakePWM struct {
	mu      sync.Mutex
	Channel int
	Pin     int
	FreqHz  uint32
	Top     uint16
	Level   uint16
}

func (p *FakePWM) Configure(freqHz uint32, top uint16) error {
	p.mu.Lock()
	p.FreqHz, p.Top = freqHz, top
	p.mu.Unlock()
	return nil
}

func (p *FakePWM) Set(level uint16) {
	p.mu.Lock()
	p.Level = level
	p.mu.Unlock()
}

// Get returns the last level written.
func (p *FakePWM) Get() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Level
}

type HostPWMFactory struct {
	mu    sync.Mutex
	chans map[int]*FakePWM
}

func (f *HostPWMFactory) ByChannel(ch int, pin int) (PWM, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chans == nil {
		f.chans = make(map[int]*FakePWM)
	}
	p, ok := f.chans[ch]
	if !ok {
		p = &FakePWM{Channel: ch}
		f.chans[ch] = p
	}
	p.Pin = pin
	return p, true
}

// Get exposes the underlying *FakePWM for tests.
func (f *HostPWMFactory) Get(ch int) (*FakePWM, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.chans[ch]
	return p, ok
}

// HostResources groups host factories so tests can reach the fakes.
type HostResources struct {
	SPI  *HostSPIFactory
	I2C  *HostI2CFactory
	Pins *HostPinFactory
	PWM  *HostPWMFactory
}

// NewHostResources returns fresh host factories.
func NewHostResources() *HostResources {
	return &HostResources{
		SPI:  &HostSPIFactory{},
		I2C:  &HostI2CFactory{},
		Pins: &HostPinFactory{},
		PWM:  &HostPWMFactory{},
	}
}

// Resources adapts the host factories to the peripheral-facing bundle.
func (h *HostResources) Resources() Resources {
	return Resources{SPI: h.SPI, I2C: h.I2C, Pins: h.Pins, PWM: h.PWM}
}
