// Package spibus is the serial transport peripheral shared by the panel.
package spibus

import (
	"displaycode-go/board"
	"displaycode-go/drivers/periph"
	"displaycode-go/errcode"
	"displaycode-go/platform"
	"displaycode-go/x/logx"

	"tinygo.org/x/drivers"
)

// Bus owns one SPI controller and its D/C line.
type Bus struct {
	periph.Latch

	caps *board.Caps
	res  platform.Resources

	cfg       Config
	committed bool
	writeHz   uint32
	readHz    uint32
	adj       []Adjustment

	spi drivers.SPI
	dc  platform.GPIO
}

// New returns an unconfigured bus for the given SoC.
func New(caps *board.Caps, res platform.Resources) *Bus {
	return &Bus{caps: caps, res: res, cfg: DefaultConfig()}
}

// Config returns the committed config, or the defaults before the first commit.
func (b *Bus) Config() Config { return b.cfg }

// Configure validates cfg, rounds both clocks to achievable rates and
// commits everything, or nothing.
func (b *Bus) Configure(cfg Config) error {
	if err := b.Check(opConfigure); err != nil {
		return err
	}
	if err := cfg.Validate(b.caps); err != nil {
		return err
	}

	writeHz := b.caps.SPIClock(cfg.FreqWrite)
	readHz := b.caps.SPIClock(cfg.FreqRead)
	var adj []Adjustment
	if writeHz != cfg.FreqWrite {
		adj = append(adj, Adjustment{Field: "freq_write", Requested: cfg.FreqWrite, Applied: writeHz})
	}
	if readHz != cfg.FreqRead {
		adj = append(adj, Adjustment{Field: "freq_read", Requested: cfg.FreqRead, Applied: readHz})
	}

	if b.res.SPI == nil {
		return errcode.New(errcode.Unsupported, opConfigure, "no SPI factory")
	}
	spi, ok := b.res.SPI.ByHost(cfg.Host, cfg.Mode, writeHz)
	if !ok {
		return errcode.New(errcode.InvalidParams, opConfigure, "spi_host unavailable")
	}
	var dc platform.GPIO
	if cfg.PinDC.Connected() {
		if b.res.Pins == nil {
			return errcode.New(errcode.Unsupported, opConfigure, "no GPIO factory")
		}
		if dc, ok = b.res.Pins.ByNumber(int(cfg.PinDC)); !ok {
			return errcode.New(errcode.InvalidPin, opConfigure, "pin_dc unavailable")
		}
	}

	b.cfg, b.writeHz, b.readHz, b.adj = cfg, writeHz, readHz, adj
	b.spi, b.dc = spi, dc
	b.committed = true
	for _, a := range adj {
		logx.Info(logx.ComponentBus, "clock adjusted", "field", a.Field, "requested_hz", a.Requested, "applied_hz", a.Applied)
	}
	logx.Debug(logx.ComponentBus, "configured", "host", cfg.Host, "mode", cfg.Mode, "write_hz", writeHz, "read_hz", readHz, "dma", cfg.DMAChannel, "lock", cfg.UseLock)
	return nil
}

// Committed reports whether a config has been applied.
func (b *Bus) Committed() bool { return b.committed }

// Adjustments lists the clock roundings made by the last successful Configure.
func (b *Bus) Adjustments() []Adjustment { return append([]Adjustment(nil), b.adj...) }

// WriteHz and ReadHz return the achievable clocks actually in use.
func (b *Bus) WriteHz() uint32 { return b.writeHz }
func (b *Bus) ReadHz() uint32  { return b.readHz }

// Locking reports whether the driver layer must serialise transactions.
// The bus records the intent only.
func (b *Bus) Locking() bool { return b.cfg.UseLock }

func (b *Bus) ready(op string) error {
	if !b.committed {
		return errcode.New(errcode.OutOfOrder, op, "bus not configured")
	}
	return nil
}

// WriteCommand sends cmd with D/C low.
func (b *Bus) WriteCommand(cmd []byte) error {
	const op = "spibus.WriteCommand"
	if err := b.ready(op); err != nil {
		return err
	}
	if b.dc == nil {
		return errcode.New(errcode.Unsupported, op, "pin_dc not wired")
	}
	b.dc.Set(false)
	err := b.spi.Tx(cmd, nil)
	b.dc.Set(true)
	return err
}

// WriteData sends data with D/C high.
func (b *Bus) WriteData(data []byte) error {
	if err := b.ready("spibus.WriteData"); err != nil {
		return err
	}
	if b.dc != nil {
		b.dc.Set(true)
	}
	return b.spi.Tx(data, nil)
}

// ReadData clocks len(buf) bytes in at the read clock, then restores the write clock.
func (b *Bus) ReadData(buf []byte) error {
	const op = "spibus.ReadData"
	if err := b.ready(op); err != nil {
		return err
	}
	if !b.cfg.ThreeWire && !b.cfg.PinMISO.Connected() {
		return errcode.New(errcode.Unsupported, op, "no receive line")
	}
	spi, ok := b.res.SPI.ByHost(b.cfg.Host, b.cfg.Mode, b.readHz)
	if !ok {
		return errcode.New(errcode.InvalidParams, op, "spi_host unavailable")
	}
	if b.dc != nil {
		b.dc.Set(true)
	}
	err := spi.Tx(nil, buf)
	if w, ok := b.res.SPI.ByHost(b.cfg.Host, b.cfg.Mode, b.writeHz); ok {
		b.spi = w
	}
	return err
}
