package panel

import (
	"sync"
	"time"
)

// MIPI DCS commands shared by the supported controllers.
const (
	cmdSWRESET = 0x01
	cmdRDDID   = 0x04
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVOFF  = 0x20
	cmdINVON   = 0x21
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdRAMRD   = 0x2E
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// MADCTL bits.
const (
	madMY  = 0x80
	madMX  = 0x40
	madMV  = 0x20
	madBGR = 0x08
)

// Command is one init step. Delay is waited after the command.
type Command struct {
	Cmd   byte
	Data  []byte
	Delay time.Duration
}

// Controller is a panel driver IC variant.
type Controller interface {
	Name() string
	// InitSequence runs after the hardware reset and before INVON/INVOFF and MADCTL.
	InitSequence() []Command
	// MADCTL returns the scan bits for a quarter turn (0..3), without BGR.
	MADCTL(quarter int) byte
	// BGR reports the controller's native colour order.
	BGR() bool
}

var (
	regMu       sync.RWMutex
	controllers = map[string]Controller{}
)

// Register makes a controller variant selectable by name.
func Register(c Controller) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := controllers[c.Name()]; exists {
		panic("duplicate panel controller: " + c.Name())
	}
	controllers[c.Name()] = c
}

// Lookup returns the named controller variant.
func Lookup(name string) (Controller, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	c, ok := controllers[name]
	return c, ok
}

func init() {
	Register(st7789{})
	Register(ili9341{})
}

type st7789 struct{}

func (st7789) Name() string { return "st7789" }
func (st7789) BGR() bool    { return false }

func (st7789) MADCTL(q int) byte {
	return [4]byte{0, madMX | madMV, madMX | madMY, madMY | madMV}[q&3]
}

func (st7789) InitSequence() []Command {
	return []Command{
		{Cmd: cmdSWRESET, Delay: 150 * time.Millisecond},
		{Cmd: cmdSLPOUT, Delay: 120 * time.Millisecond},
		{Cmd: cmdCOLMOD, Data: []byte{0x55}},
		{Cmd: 0xB2, Data: []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}}, // PORCTRL
		{Cmd: 0xB7, Data: []byte{0x35}},                         // GCTRL
		{Cmd: 0xBB, Data: []byte{0x28}},                         // VCOMS
		{Cmd: cmdNORON},
		{Cmd: cmdDISPON, Delay: 20 * time.Millisecond},
	}
}

type ili9341 struct{}

func (ili9341) Name() string { return "ili9341" }
func (ili9341) BGR() bool    { return true }

func (ili9341) MADCTL(q int) byte {
	return [4]byte{madMX, madMV, madMY, madMX | madMY | madMV}[q&3]
}

func (ili9341) InitSequence() []Command {
	return []Command{
		{Cmd: cmdSWRESET, Delay: 150 * time.Millisecond},
		{Cmd: 0xC0, Data: []byte{0x23}},       // PWCTR1
		{Cmd: 0xC1, Data: []byte{0x10}},       // PWCTR2
		{Cmd: 0xC5, Data: []byte{0x3E, 0x28}}, // VMCTR1
		{Cmd: 0xC7, Data: []byte{0x86}},       // VMCTR2
		{Cmd: cmdCOLMOD, Data: []byte{0x55}},
		{Cmd: 0xB1, Data: []byte{0x00, 0x18}}, // FRMCTR1
		{Cmd: cmdSLPOUT, Delay: 120 * time.Millisecond},
		{Cmd: cmdDISPON, Delay: 20 * time.Millisecond},
	}
}
