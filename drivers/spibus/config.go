package spibus

import (
	"strconv"

	"displaycode-go/board"
	"displaycode-go/errcode"
)

// Config is the SPI transport record. Zero pins are GPIO0; use board.NoPin
// for signals that are not wired.
type Config struct {
	Host       int       `json:"spi_host"`    // SPI controller identity on the SoC
	Mode       uint8     `json:"spi_mode"`    // 0..3
	FreqWrite  uint32    `json:"freq_write"`  // Hz, rounded down to an achievable divider
	FreqRead   uint32    `json:"freq_read"`   // Hz, independent of FreqWrite
	ThreeWire  bool      `json:"spi_3wire"`   // receive on MOSI
	UseLock    bool      `json:"use_lock"`    // transactions must be serialised by the driver layer
	DMAChannel int       `json:"dma_channel"` // 0 = no DMA
	PinSCLK    board.Pin `json:"pin_sclk"`
	PinMOSI    board.Pin `json:"pin_mosi"`
	PinMISO    board.Pin `json:"pin_miso"`
	PinDC      board.Pin `json:"pin_dc"`
	// ReadShared keeps MISO wired in 3-wire mode because another device on
	// the same bus (typically an SD card) reads through it.
	ReadShared bool `json:"read_shared"`
}

// DefaultConfig returns a config with nothing wired.
func DefaultConfig() Config {
	return Config{
		Host:      board.SPI2Host,
		Mode:      0,
		FreqWrite: 40_000_000,
		FreqRead:  16_000_000,
		PinSCLK:   board.NoPin,
		PinMOSI:   board.NoPin,
		PinMISO:   board.NoPin,
		PinDC:     board.NoPin,
	}
}

// Adjustment reports a frequency that was rounded to what the hardware can produce.
type Adjustment struct {
	Field     string
	Requested uint32
	Applied   uint32
}

func (a Adjustment) String() string {
	return a.Field + ": requested " + strconv.FormatUint(uint64(a.Requested), 10) +
		" Hz, applied " + strconv.FormatUint(uint64(a.Applied), 10) + " Hz"
}

const opConfigure = "spibus.Configure"

// Validate checks cfg against caps without side effects.
func (cfg Config) Validate(caps *board.Caps) error {
	if cfg.Mode > 3 {
		return errcode.New(errcode.InvalidParams, opConfigure, "spi_mode="+strconv.Itoa(int(cfg.Mode))+" not in 0..3")
	}
	if err := checkFreq("freq_write", cfg.FreqWrite, caps.SPIMaxHz); err != nil {
		return err
	}
	if err := checkFreq("freq_read", cfg.FreqRead, caps.SPIMaxHz); err != nil {
		return err
	}
	if !caps.HasSPIHost(cfg.Host) {
		return errcode.New(errcode.InvalidParams, opConfigure, "spi_host="+strconv.Itoa(cfg.Host)+" not present on "+caps.Name)
	}
	if !caps.HasDMAChannel(cfg.DMAChannel) {
		return errcode.New(errcode.InvalidParams, opConfigure, "dma_channel="+strconv.Itoa(cfg.DMAChannel)+" not available")
	}
	if err := caps.CheckPin(opConfigure, "pin_sclk", cfg.PinSCLK, board.Output, false); err != nil {
		return err
	}
	if err := caps.CheckPin(opConfigure, "pin_mosi", cfg.PinMOSI, board.Output, false); err != nil {
		return err
	}
	if cfg.ThreeWire && !cfg.ReadShared && cfg.PinMISO != board.NoPin {
		return errcode.New(errcode.InvalidPin, opConfigure, "pin_miso must be disabled in 3-wire mode unless read_shared is set")
	}
	if err := caps.CheckPin(opConfigure, "pin_miso", cfg.PinMISO, board.Input, !cfg.ReadShared); err != nil {
		return err
	}
	if err := caps.CheckPin(opConfigure, "pin_dc", cfg.PinDC, board.Output, true); err != nil {
		return err
	}
	return distinct(opConfigure, map[string]board.Pin{
		"pin_sclk": cfg.PinSCLK, "pin_mosi": cfg.PinMOSI, "pin_miso": cfg.PinMISO, "pin_dc": cfg.PinDC,
	})
}

func checkFreq(field string, hz, max uint32) error {
	switch {
	case hz == 0:
		return errcode.New(errcode.InvalidFrequency, opConfigure, field+" must be positive")
	case hz > max:
		return errcode.New(errcode.InvalidFrequency, opConfigure, field+"="+strconv.FormatUint(uint64(hz), 10)+" above hardware maximum")
	}
	return nil
}

func distinct(op string, pins map[string]board.Pin) error {
	seen := make(map[board.Pin]string, len(pins))
	for field, p := range pins {
		if !p.Connected() {
			continue
		}
		if other, dup := seen[p]; dup {
			return errcode.New(errcode.InvalidPin, op, field+" and "+other+" share GPIO"+strconv.Itoa(int(p)))
		}
		seen[p] = field
	}
	return nil
}
