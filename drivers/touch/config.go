package touch

import (
	"strconv"

	"displaycode-go/board"
	"displaycode-go/errcode"
	"displaycode-go/x/mathx"
	"displaycode-go/x/orient"
)

// Config is the I²C touch controller record. X/Y bounds are raw sensor
// readings that correspond to the panel edges.
type Config struct {
	PinInt         board.Pin `json:"pin_int"` // active-low interrupt, optional
	PinSDA         board.Pin `json:"pin_sda"`
	PinSCL         board.Pin `json:"pin_scl"`
	Addr           uint16    `json:"i2c_addr"`
	Port           int       `json:"i2c_port"`
	Freq           uint32    `json:"freq"`
	XMin           int       `json:"x_min"`
	XMax           int       `json:"x_max"`
	YMin           int       `json:"y_min"`
	YMax           int       `json:"y_max"`
	OffsetRotation uint8     `json:"offset_rotation"` // 0..7, independent of the panel
	BusShared      bool      `json:"bus_shared"`      // recorded only; the I²C bus is not arbitrated
}

// DefaultConfig returns a config with nothing wired and a 12-bit raw range.
func DefaultConfig() Config {
	return Config{
		PinInt: board.NoPin,
		PinSDA: board.NoPin,
		PinSCL: board.NoPin,
		Freq:   400_000,
		XMax:   4095,
		YMax:   4095,
	}
}

const opConfigure = "touch.Configure"

// Validate checks bounds, address, pins, port and bus frequency.
func (cfg Config) Validate(caps *board.Caps) error {
	if cfg.XMin >= cfg.XMax {
		return errcode.New(errcode.DegenerateRange, opConfigure, "x_min must be below x_max")
	}
	if cfg.YMin >= cfg.YMax {
		return errcode.New(errcode.DegenerateRange, opConfigure, "y_min must be below y_max")
	}
	if cfg.Addr > 0x7F {
		return errcode.New(errcode.InvalidParams, opConfigure, "i2c_addr=0x"+strconv.FormatUint(uint64(cfg.Addr), 16)+" outside 7-bit space")
	}
	if cfg.OffsetRotation >= orient.Total {
		return errcode.New(errcode.InvalidParams, opConfigure, "offset_rotation not in 0..7")
	}
	if !caps.HasI2CPort(cfg.Port) {
		return errcode.New(errcode.InvalidParams, opConfigure, "i2c_port="+strconv.Itoa(cfg.Port)+" not present on "+caps.Name)
	}
	if cfg.Freq == 0 || cfg.Freq > caps.I2CMaxHz {
		return errcode.New(errcode.InvalidFrequency, opConfigure, "freq="+strconv.FormatUint(uint64(cfg.Freq), 10)+" out of range")
	}
	if err := caps.CheckPin(opConfigure, "pin_sda", cfg.PinSDA, board.Output, false); err != nil {
		return err
	}
	if err := caps.CheckPin(opConfigure, "pin_scl", cfg.PinSCL, board.Output, false); err != nil {
		return err
	}
	if err := caps.CheckPin(opConfigure, "pin_int", cfg.PinInt, board.Input, true); err != nil {
		return err
	}
	if cfg.PinSDA == cfg.PinSCL || (cfg.PinInt.Connected() && (cfg.PinInt == cfg.PinSDA || cfg.PinInt == cfg.PinSCL)) {
		return errcode.New(errcode.InvalidPin, opConfigure, "touch pins must be distinct")
	}
	return nil
}

// Transform maps a raw reading into panel pixel space for this config.
func (cfg Config) Transform(rawX, rawY, panelW, panelH int) (int, int) {
	return Transform(rawX, rawY, int(cfg.OffsetRotation), panelW, panelH, cfg.XMin, cfg.XMax, cfg.YMin, cfg.YMax)
}

// Transform clamps (rawX, rawY) into the calibration window, rescales it to
// the sensor frame (the panel size, axes swapped for odd quarter turns) and
// then mirrors and rotates by offset into [0,panelW-1]×[0,panelH-1].
func Transform(rawX, rawY, offset, panelW, panelH, xMin, xMax, yMin, yMax int) (int, int) {
	r := orient.Normalize(offset)
	sw, sh := panelW, panelH
	if orient.Swapped(r) {
		sw, sh = panelH, panelW
	}
	x := mathx.MapInt(mathx.Clamp(rawX, xMin, xMax), xMin, xMax, 0, sw-1)
	y := mathx.MapInt(mathx.Clamp(rawY, yMin, yMax), yMin, yMax, 0, sh-1)
	return orient.Map(x, y, panelW, panelH, r)
}
