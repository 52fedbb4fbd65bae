// Package panel is the display controller peripheral. It owns geometry and
// scan orientation and routes transfers through a bus it does not own.
package panel

import (
	"image/color"
	"time"

	"displaycode-go/board"
	"displaycode-go/drivers/backlight"
	"displaycode-go/drivers/periph"
	"displaycode-go/drivers/spibus"
	"displaycode-go/drivers/touch"
	"displaycode-go/errcode"
	"displaycode-go/platform"
	"displaycode-go/x/logx"
	"displaycode-go/x/orient"

	"tinygo.org/x/drivers"
	drvtouch "tinygo.org/x/drivers/touch"
)

const (
	resetPulse   = 10 * time.Millisecond
	resetRecover = 120 * time.Millisecond
	busyPoll     = time.Millisecond
	busyPolls    = 1000
	fillChunk    = 64 // pixels per data transfer
)

// Panel is one display controller instance.
type Panel struct {
	periph.Latch

	caps *board.Caps
	res  platform.Resources
	ctl  Controller

	cfg       Config
	committed bool
	cs        platform.GPIO
	rst       platform.GPIO
	busy      platform.GPIO

	// Non-owning references; the assembly owns these peripherals.
	bus   *spibus.Bus
	light *backlight.Light
	touch *touch.Touch

	requested   drivers.Rotation
	rot         drivers.Rotation
	initialized bool

	sleep func(time.Duration)
	buf   [fillChunk * 2]byte
}

// New returns an unconfigured panel driven by the given controller variant.
func New(caps *board.Caps, res platform.Resources, ctl Controller) *Panel {
	return &Panel{caps: caps, res: res, ctl: ctl, cfg: DefaultConfig(), sleep: time.Sleep}
}

// SetSleep replaces the delay function used by reset and init (tests pass a no-op).
func (p *Panel) SetSleep(f func(time.Duration)) { p.sleep = f }

func (p *Panel) Controller() Controller { return p.ctl }

func (p *Panel) Config() Config { return p.cfg }

// Configure validates and commits cfg; a rejected cfg leaves the previous one in place.
func (p *Panel) Configure(cfg Config) error {
	if err := p.Check(opConfigure); err != nil {
		return err
	}
	if err := cfg.Validate(p.caps); err != nil {
		return err
	}
	var cs, rst, busy platform.GPIO
	for _, w := range []struct {
		pin board.Pin
		dst *platform.GPIO
	}{{cfg.PinCS, &cs}, {cfg.PinRST, &rst}, {cfg.PinBusy, &busy}} {
		if !w.pin.Connected() {
			continue
		}
		if p.res.Pins == nil {
			return errcode.New(errcode.Unsupported, opConfigure, "no GPIO factory")
		}
		g, ok := p.res.Pins.ByNumber(int(w.pin))
		if !ok {
			return errcode.New(errcode.InvalidPin, opConfigure, "control pin unavailable")
		}
		*w.dst = g
	}
	p.cfg, p.cs, p.rst, p.busy = cfg, cs, rst, busy
	p.committed = true
	p.initialized = false
	p.rot = orient.Compose(int(p.requested), int(cfg.OffsetRotation))
	logx.Debug(logx.ComponentPanel, "configured", "controller", p.ctl.Name(),
		"panel", [2]uint16{cfg.PanelWidth, cfg.PanelHeight}, "memory", [2]uint16{cfg.MemoryWidth, cfg.MemoryHeight},
		"offset_rotation", cfg.OffsetRotation)
	return nil
}

func (p *Panel) Committed() bool { return p.committed }

// SetBus wires the transport. Passing nil drops the reference and the panel
// must be initialised again before drawing.
func (p *Panel) SetBus(b *spibus.Bus) {
	p.bus = b
	if b == nil {
		p.initialized = false
	}
}

// Wiring setters. Passing nil drops the reference.
func (p *Panel) SetLight(l *backlight.Light) { p.light = l }
func (p *Panel) SetTouch(t *touch.Touch)     { p.touch = t }
func (p *Panel) Bus() *spibus.Bus            { return p.bus }
func (p *Panel) Light() *backlight.Light     { return p.light }
func (p *Panel) Touch() *touch.Touch         { return p.touch }

// SetRotation selects a runtime rotation; the configured offset is added.
func (p *Panel) SetRotation(r int) error {
	p.requested = orient.Normalize(r)
	p.rot = orient.Compose(r, int(p.cfg.OffsetRotation))
	if p.ready("panel.SetRotation") != nil {
		return nil
	}
	p.begin()
	defer p.end()
	return p.writeCmd(cmdMADCTL, p.MADCTL())
}

// Rotation returns the requested rotation; Effective includes the offset.
func (p *Panel) Rotation() drivers.Rotation  { return p.requested }
func (p *Panel) Effective() drivers.Rotation { return p.rot }

// Size returns the visible size in the current orientation.
func (p *Panel) Size() (x, y int16) {
	w, h := int16(p.cfg.PanelWidth), int16(p.cfg.PanelHeight)
	if orient.Swapped(p.rot) {
		return h, w
	}
	return w, h
}

// Init resets the controller and brings the display, backlight and touch up.
func (p *Panel) Init() error {
	const op = "panel.Init"
	if !p.committed {
		return errcode.New(errcode.OutOfOrder, op, "panel not configured")
	}
	if p.bus == nil || !p.bus.Committed() {
		return errcode.New(errcode.OutOfOrder, op, "no bus wired")
	}
	if p.rst != nil {
		p.rst.Set(false)
		p.sleep(resetPulse)
		p.rst.Set(true)
		p.sleep(resetRecover)
	}
	if err := p.waitBusy(); err != nil {
		return err
	}
	if p.cs != nil {
		p.cs.Set(false)
	}
	for _, c := range p.ctl.InitSequence() {
		if err := p.writeCmd(c.Cmd, c.Data...); err != nil {
			return err
		}
		if c.Delay > 0 {
			p.sleep(c.Delay)
		}
	}
	inv := byte(cmdINVOFF)
	if p.cfg.Invert {
		inv = cmdINVON
	}
	if err := p.writeCmd(inv); err != nil {
		return err
	}
	if err := p.writeCmd(cmdMADCTL, p.MADCTL()); err != nil {
		return err
	}
	p.end()
	p.initialized = true

	if p.light != nil {
		if err := p.light.Init(); err != nil {
			return err
		}
	}
	if p.touch != nil {
		if err := p.touch.Init(); err != nil {
			return err
		}
	}
	logx.Debug(logx.ComponentPanel, "initialised", "rotation", p.rot)
	return nil
}

func (p *Panel) waitBusy() error {
	if p.busy == nil {
		return nil
	}
	for i := 0; i < busyPolls; i++ {
		if !p.busy.Get() {
			return nil
		}
		p.sleep(busyPoll)
	}
	return errcode.New(errcode.Error, "panel.Init", "busy line stuck high")
}

// MADCTL returns the memory access control byte for the effective rotation.
func (p *Panel) MADCTL() byte {
	q, mirrored := orient.Split(p.rot)
	m := p.ctl.MADCTL(q)
	if mirrored {
		if q&1 == 1 {
			m ^= madMX
		} else {
			m ^= madMY
		}
	}
	if p.ctl.BGR() != p.cfg.RGBOrder {
		m |= madBGR
	}
	return m
}

// windowOffset returns the memory column/row of the visible origin in the
// current orientation. Mirroring swaps the near and far vertical gaps.
func (p *Panel) windowOffset() (col, row int) {
	c := p.cfg
	ox, oy := int(c.OffsetX), int(c.OffsetY)
	fx := int(c.MemoryWidth) - int(c.PanelWidth) - ox
	fy := int(c.MemoryHeight) - int(c.PanelHeight) - oy
	q, mirrored := orient.Split(p.rot)
	if mirrored {
		oy, fy = fy, oy
	}
	switch q {
	case 1:
		return oy, ox
	case 2:
		return fx, fy
	case 3:
		return fy, fx
	}
	return ox, oy
}

// begin/end bracket a transaction. A shared bus releases chip select after
// every transaction; an exclusive bus keeps it asserted from Init.
func (p *Panel) begin() {
	if p.cs != nil {
		p.cs.Set(false)
	}
}

func (p *Panel) end() {
	if p.cs != nil && p.cfg.BusShared {
		p.cs.Set(true)
	}
}

func (p *Panel) writeCmd(cmd byte, data ...byte) error {
	if p.cfg.DLen16Bit {
		if err := p.bus.WriteCommand([]byte{0, cmd}); err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		wide := make([]byte, 0, 2*len(data))
		for _, b := range data {
			wide = append(wide, 0, b)
		}
		return p.bus.WriteData(wide)
	}
	if err := p.bus.WriteCommand([]byte{cmd}); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return p.bus.WriteData(data)
}

func (p *Panel) setWindow(x0, y0, x1, y1 int) error {
	col, row := p.windowOffset()
	x0, x1 = x0+col, x1+col
	y0, y1 = y0+row, y1+row
	if err := p.writeCmd(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	return p.writeCmd(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
}

func (p *Panel) ready(op string) error {
	if p.bus == nil || !p.bus.Committed() {
		return errcode.New(errcode.OutOfOrder, op, "no bus wired")
	}
	if !p.initialized {
		return errcode.New(errcode.OutOfOrder, op, "panel not initialised")
	}
	return nil
}

// SetPixel writes one pixel; points outside the visible area are ignored.
func (p *Panel) SetPixel(x, y int16, c color.RGBA) {
	if err := p.FillRect(x, y, 1, 1, c); err != nil {
		logx.Warn(logx.ComponentPanel, "set pixel failed", "err", err)
	}
}

// FillRect fills a rectangle clipped to the visible area.
func (p *Panel) FillRect(x, y, w, h int16, c color.RGBA) error {
	if err := p.ready("panel.FillRect"); err != nil {
		return err
	}
	sw, sh := p.Size()
	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1, y1 := min(int(x)+int(w), int(sw))-1, min(int(y)+int(h), int(sh))-1
	if x1 < x0 || y1 < y0 {
		return nil
	}
	p.begin()
	defer p.end()
	if err := p.setWindow(x0, y0, x1, y1); err != nil {
		return err
	}
	if err := p.writeCmd(cmdRAMWR); err != nil {
		return err
	}
	hi, lo := rgb565(c)
	for i := 0; i < len(p.buf); i += 2 {
		p.buf[i], p.buf[i+1] = hi, lo
	}
	for n := (x1 - x0 + 1) * (y1 - y0 + 1); n > 0; n -= fillChunk {
		k := min(n, fillChunk)
		if err := p.bus.WriteData(p.buf[:2*k]); err != nil {
			return err
		}
	}
	return nil
}

// ReadPixel reads one pixel back as RGB666 after the configured dummy bits.
func (p *Panel) ReadPixel(x, y int16) (color.RGBA, error) {
	const op = "panel.ReadPixel"
	if !p.cfg.Readable {
		return color.RGBA{}, errcode.New(errcode.Unsupported, op, "panel is not readable")
	}
	if err := p.ready(op); err != nil {
		return color.RGBA{}, err
	}
	sw, sh := p.Size()
	if x < 0 || y < 0 || x >= sw || y >= sh {
		return color.RGBA{}, errcode.New(errcode.GeometryOutOfBounds, op, "point outside panel")
	}
	p.begin()
	defer p.end()
	if err := p.setWindow(int(x), int(y), int(x), int(y)); err != nil {
		return color.RGBA{}, err
	}
	if err := p.writeCmd(cmdRAMRD); err != nil {
		return color.RGBA{}, err
	}
	skip := int(p.cfg.DummyReadPixel)
	raw := make([]byte, (skip+24+7)/8)
	if err := p.bus.ReadData(raw); err != nil {
		return color.RGBA{}, err
	}
	r, g, b := bitsAt(raw, skip), bitsAt(raw, skip+8), bitsAt(raw, skip+16)
	if p.cfg.RGBOrder {
		r, b = b, r
	}
	return color.RGBA{R: r & 0xFC, G: g & 0xFC, B: b & 0xFC, A: 0xFF}, nil
}

// ReadID returns the 24-bit display identification (RDDID). Register reads
// skip DummyReadBits before the data.
func (p *Panel) ReadID() (uint32, error) {
	const op = "panel.ReadID"
	if !p.cfg.Readable {
		return 0, errcode.New(errcode.Unsupported, op, "panel is not readable")
	}
	if err := p.ready(op); err != nil {
		return 0, err
	}
	p.begin()
	defer p.end()
	if err := p.writeCmd(cmdRDDID); err != nil {
		return 0, err
	}
	skip := int(p.cfg.DummyReadBits)
	raw := make([]byte, (skip+24+7)/8)
	if err := p.bus.ReadData(raw); err != nil {
		return 0, err
	}
	return uint32(bitsAt(raw, skip))<<16 | uint32(bitsAt(raw, skip+8))<<8 | uint32(bitsAt(raw, skip+16)), nil
}

// Display is a no-op; writes go straight to controller memory.
func (p *Panel) Display() error { return nil }

// TouchPoint returns the current touch in the drawing frame of the current
// rotation, the same frame Size, SetPixel and FillRect use.
func (p *Panel) TouchPoint() (drvtouch.Point, bool) {
	if p.touch == nil {
		return drvtouch.Point{}, false
	}
	w, h := int(p.cfg.PanelWidth), int(p.cfg.PanelHeight)
	pt, ok := p.touch.Point(w, h)
	if !ok {
		return pt, false
	}
	pt.X, pt.Y = orient.Unmap(pt.X, pt.Y, w, h, p.rot)
	return pt, true
}

var _ drivers.Displayer = (*Panel)(nil)

func rgb565(c color.RGBA) (hi, lo byte) {
	v := uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3
	return byte(v >> 8), byte(v)
}

// bitsAt returns the byte starting at bit offset off (MSB first) in b.
func bitsAt(b []byte, off int) byte {
	i, s := off/8, uint(off%8)
	v := uint16(b[i]) << 8
	if i+1 < len(b) {
		v |= uint16(b[i+1])
	}
	return byte(v >> (8 - s))
}
