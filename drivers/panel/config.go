package panel

import (
	"strconv"

	"displaycode-go/board"
	"displaycode-go/errcode"
	"displaycode-go/x/orient"
)

// Config is the panel record. Memory dimensions are what the driver IC can
// address; panel dimensions are the visible glass inside that memory.
type Config struct {
	PinCS   board.Pin `json:"pin_cs"`
	PinRST  board.Pin `json:"pin_rst"`
	PinBusy board.Pin `json:"pin_busy"`

	MemoryWidth  uint16 `json:"memory_width"`
	MemoryHeight uint16 `json:"memory_height"`
	PanelWidth   uint16 `json:"panel_width"`
	PanelHeight  uint16 `json:"panel_height"`
	OffsetX      uint16 `json:"offset_x"`
	OffsetY      uint16 `json:"offset_y"`

	OffsetRotation uint8 `json:"offset_rotation"` // 0..7, 4..7 mirror vertically
	DummyReadPixel uint8 `json:"dummy_read_pixel"`
	DummyReadBits  uint8 `json:"dummy_read_bits"` // before register data (ReadID)

	Readable  bool `json:"readable"`
	Invert    bool `json:"invert"`
	RGBOrder  bool `json:"rgb_order"`  // red and blue swapped
	DLen16Bit bool `json:"dlen_16bit"` // command and parameter bytes sent as 16-bit words
	BusShared bool `json:"bus_shared"`
}

// DefaultConfig returns a 240x320 panel with no control pins.
func DefaultConfig() Config {
	return Config{
		PinCS:          board.NoPin,
		PinRST:         board.NoPin,
		PinBusy:        board.NoPin,
		MemoryWidth:    240,
		MemoryHeight:   320,
		PanelWidth:     240,
		PanelHeight:    320,
		DummyReadPixel: 8,
		DummyReadBits:  1,
		Readable:       true,
	}
}

const (
	opConfigure  = "panel.Configure"
	maxDummyBits = 32
)

// Validate checks geometry, rotation offset, read timing and pins.
func (cfg Config) Validate(caps *board.Caps) error {
	if err := cfg.checkGeometry(); err != nil {
		return err
	}
	if cfg.OffsetRotation >= orient.Total {
		return errcode.New(errcode.InvalidParams, opConfigure, "offset_rotation not in 0..7")
	}
	if cfg.DummyReadPixel > maxDummyBits || cfg.DummyReadBits > maxDummyBits {
		return errcode.New(errcode.InvalidParams, opConfigure, "dummy read bits above 32")
	}
	if err := caps.CheckPin(opConfigure, "pin_cs", cfg.PinCS, board.Output, true); err != nil {
		return err
	}
	if err := caps.CheckPin(opConfigure, "pin_rst", cfg.PinRST, board.Output, true); err != nil {
		return err
	}
	if err := caps.CheckPin(opConfigure, "pin_busy", cfg.PinBusy, board.Input, true); err != nil {
		return err
	}
	pins := []board.Pin{cfg.PinCS, cfg.PinRST, cfg.PinBusy}
	for i := range pins {
		for j := i + 1; j < len(pins); j++ {
			if pins[i].Connected() && pins[i] == pins[j] {
				return errcode.New(errcode.InvalidPin, opConfigure, "control pins share GPIO"+strconv.Itoa(int(pins[i])))
			}
		}
	}
	return nil
}

func (cfg Config) checkGeometry() error {
	mw, mh := int(cfg.MemoryWidth), int(cfg.MemoryHeight)
	pw, ph := int(cfg.PanelWidth), int(cfg.PanelHeight)
	switch {
	case mw == 0 || mh == 0 || pw == 0 || ph == 0:
		return errcode.New(errcode.GeometryOutOfBounds, opConfigure, "zero dimension")
	case pw > mw:
		return errcode.New(errcode.GeometryOutOfBounds, opConfigure, "panel_width "+strconv.Itoa(pw)+" exceeds memory_width "+strconv.Itoa(mw))
	case ph > mh:
		return errcode.New(errcode.GeometryOutOfBounds, opConfigure, "panel_height "+strconv.Itoa(ph)+" exceeds memory_height "+strconv.Itoa(mh))
	case int(cfg.OffsetX)+pw > mw:
		return errcode.New(errcode.GeometryOutOfBounds, opConfigure, "offset_x places the window outside memory")
	case int(cfg.OffsetY)+ph > mh:
		return errcode.New(errcode.GeometryOutOfBounds, opConfigure, "offset_y places the window outside memory")
	}
	return nil
}
