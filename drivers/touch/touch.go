// Package touch is the I²C touch overlay peripheral and the raw-to-panel
// coordinate transform.
package touch

import (
	"displaycode-go/board"
	"displaycode-go/drivers/periph"
	"displaycode-go/errcode"
	"displaycode-go/platform"
	"displaycode-go/x/logx"

	"tinygo.org/x/drivers"
	drvtouch "tinygo.org/x/drivers/touch"
)

// Touch owns one sensor on one I²C port.
type Touch struct {
	periph.Latch

	caps   *board.Caps
	res    platform.Resources
	sensor Sensor

	cfg       Config
	committed bool
	bus       drivers.I2C
	irq       platform.GPIO
}

// New returns an unconfigured touch peripheral whose default address is the sensor's.
func New(caps *board.Caps, res platform.Resources, s Sensor) *Touch {
	cfg := DefaultConfig()
	cfg.Addr = s.DefaultAddr()
	return &Touch{caps: caps, res: res, sensor: s, cfg: cfg}
}

func (t *Touch) Config() Config { return t.cfg }

// Configure validates and commits cfg; a rejected cfg leaves the previous one in place.
func (t *Touch) Configure(cfg Config) error {
	if err := t.Check(opConfigure); err != nil {
		return err
	}
	if err := cfg.Validate(t.caps); err != nil {
		return err
	}
	if t.res.I2C == nil {
		return errcode.New(errcode.Unsupported, opConfigure, "no I2C factory")
	}
	bus, ok := t.res.I2C.ByPort(cfg.Port, cfg.Freq)
	if !ok {
		return errcode.New(errcode.InvalidParams, opConfigure, "i2c_port unavailable")
	}
	var irq platform.GPIO
	if cfg.PinInt.Connected() {
		if t.res.Pins == nil {
			return errcode.New(errcode.Unsupported, opConfigure, "no GPIO factory")
		}
		if irq, ok = t.res.Pins.ByNumber(int(cfg.PinInt)); !ok {
			return errcode.New(errcode.InvalidPin, opConfigure, "pin_int unavailable")
		}
	}
	t.cfg, t.bus, t.irq, t.committed = cfg, bus, irq, true
	logx.Debug(logx.ComponentTouch, "configured", "addr", cfg.Addr, "port", cfg.Port, "freq", cfg.Freq, "offset_rotation", cfg.OffsetRotation)
	return nil
}

func (t *Touch) Committed() bool { return t.committed }

// Init probes the sensor.
func (t *Touch) Init() error {
	if !t.committed {
		return errcode.New(errcode.OutOfOrder, "touch.Init", "not configured")
	}
	return t.sensor.Init(t.bus, t.cfg.Addr)
}

// ReadRaw returns the untransformed sensor reading. With an interrupt pin
// wired the sensor is only polled while the line is asserted (low).
func (t *Touch) ReadRaw() (drvtouch.Point, bool) {
	if !t.committed {
		return drvtouch.Point{}, false
	}
	if t.irq != nil && t.irq.Get() {
		return drvtouch.Point{}, false
	}
	p, err := t.sensor.Read(t.bus, t.cfg.Addr)
	if err != nil {
		logx.Warn(logx.ComponentTouch, "read failed", "err", err)
		return drvtouch.Point{}, false
	}
	return p, p.Z > 0
}

// Point returns the current touch in the coordinates of a panelW×panelH panel.
func (t *Touch) Point(panelW, panelH int) (drvtouch.Point, bool) {
	raw, ok := t.ReadRaw()
	if !ok {
		return drvtouch.Point{}, false
	}
	x, y := t.cfg.Transform(raw.X, raw.Y, panelW, panelH)
	return drvtouch.Point{X: x, Y: y, Z: raw.Z}, true
}
