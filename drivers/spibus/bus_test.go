package spibus

import (
	"errors"
	"testing"

	"displaycode-go/board"
	"displaycode-go/errcode"
	"displaycode-go/platform"
)

// sketchConfig is the bus wiring of the reference ESP32 board.
func sketchConfig() Config {
	cfg := DefaultConfig()
	cfg.Host = board.SPI2Host
	cfg.Mode = 0
	cfg.FreqWrite = 40_000_000
	cfg.FreqRead = 16_000_000
	cfg.ThreeWire = true
	cfg.UseLock = true
	cfg.DMAChannel = 1
	cfg.PinSCLK = 14
	cfg.PinMOSI = 13
	cfg.PinMISO = 12
	cfg.PinDC = 2
	cfg.ReadShared = true
	return cfg
}

func newBus(caps *board.Caps) (*Bus, *platform.HostResources) {
	h := platform.NewHostResources()
	return New(caps, h.Resources()), h
}

func TestConfigureCommitsExactClocks(t *testing.T) {
	b, h := newBus(board.ESP32())
	if err := b.Configure(sketchConfig()); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if len(b.Adjustments()) != 0 {
		t.Fatalf("unexpected adjustments: %v", b.Adjustments())
	}
	if b.WriteHz() != 40_000_000 || b.ReadHz() != 16_000_000 {
		t.Fatalf("clocks: %d/%d", b.WriteHz(), b.ReadHz())
	}
	if spi := h.SPI.Get(board.SPI2Host); spi.FreqHz != 40_000_000 {
		t.Fatalf("controller opened at %d Hz", spi.FreqHz)
	}
	if !b.Locking() {
		t.Fatal("use_lock intent lost")
	}
}

func TestConfigureReportsAdjustedClock(t *testing.T) {
	caps := board.ESP32()
	caps.SPIMinDivider = 3 // nearest achievable at or below 40 MHz is 80/3 MHz
	b, _ := newBus(caps)
	if err := b.Configure(sketchConfig()); err != nil {
		t.Fatalf("configure: %v", err)
	}
	adj := b.Adjustments()
	if len(adj) != 1 {
		t.Fatalf("want one adjustment, got %v", adj)
	}
	if adj[0].Field != "freq_write" || adj[0].Requested != 40_000_000 || adj[0].Applied != 26_666_666 {
		t.Fatalf("adjustment mismatch: %+v", adj[0])
	}
	if b.WriteHz() == 40_000_000 {
		t.Fatal("bus claims the unachievable clock")
	}
}

func TestConfigureRejects(t *testing.T) {
	cases := map[string]struct {
		mut  func(*Config)
		want errcode.Code
	}{
		"mode":           {func(c *Config) { c.Mode = 4 }, errcode.InvalidParams},
		"zero write":     {func(c *Config) { c.FreqWrite = 0 }, errcode.InvalidFrequency},
		"zero read":      {func(c *Config) { c.FreqRead = 0 }, errcode.InvalidFrequency},
		"above max":      {func(c *Config) { c.FreqWrite = 81_000_000 }, errcode.InvalidFrequency},
		"host":           {func(c *Config) { c.Host = 7 }, errcode.InvalidParams},
		"dma":            {func(c *Config) { c.DMAChannel = 5 }, errcode.InvalidParams},
		"sclk missing":   {func(c *Config) { c.PinSCLK = board.NoPin }, errcode.InvalidPin},
		"flash pin":      {func(c *Config) { c.PinMOSI = 7 }, errcode.InvalidPin},
		"dc input-only":  {func(c *Config) { c.PinDC = 35 }, errcode.InvalidPin},
		"3wire miso":     {func(c *Config) { c.ReadShared = false }, errcode.InvalidPin},
		"shared no miso": {func(c *Config) { c.PinMISO = board.NoPin }, errcode.InvalidPin},
		"duplicate":      {func(c *Config) { c.PinDC = 14 }, errcode.InvalidPin},
	}
	for name, tc := range cases {
		b, _ := newBus(board.ESP32())
		cfg := sketchConfig()
		tc.mut(&cfg)
		err := b.Configure(cfg)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", name, err, tc.want)
		}
		if b.Committed() {
			t.Fatalf("%s: rejected config was committed", name)
		}
	}
}

func TestRejectedConfigKeepsPrevious(t *testing.T) {
	b, _ := newBus(board.ESP32())
	good := sketchConfig()
	if err := b.Configure(good); err != nil {
		t.Fatal(err)
	}
	bad := good
	bad.Mode = 9
	if err := b.Configure(bad); err == nil {
		t.Fatal("bad config accepted")
	}
	if b.Config() != good {
		t.Fatalf("committed config changed: %+v", b.Config())
	}
}

func TestThreeWireWithoutMISO(t *testing.T) {
	b, _ := newBus(board.ESP32())
	cfg := sketchConfig()
	cfg.ReadShared = false
	cfg.PinMISO = board.NoPin
	if err := b.Configure(cfg); err != nil {
		t.Fatalf("3-wire without MISO should be valid: %v", err)
	}
}

func TestSealedBusRejectsConfigure(t *testing.T) {
	b, _ := newBus(board.ESP32())
	b.Seal()
	if err := b.Configure(sketchConfig()); !errors.Is(err, errcode.AlreadySealed) {
		t.Fatalf("got %v", err)
	}
}

func TestTransfersDriveDC(t *testing.T) {
	b, h := newBus(board.ESP32())
	spi := h.SPI.Get(board.SPI2Host)
	spi.DC = h.Pins.Pin(2)
	if err := b.WriteCommand([]byte{0x2C}); !errors.Is(err, errcode.OutOfOrder) {
		t.Fatalf("write before configure: %v", err)
	}
	if err := b.Configure(sketchConfig()); err != nil {
		t.Fatal(err)
	}
	_ = b.WriteCommand([]byte{0x2C})
	_ = b.WriteData([]byte{0xF8, 0x00})
	spi.Reply = []byte{0xAA}
	var rb [1]byte
	if err := b.ReadData(rb[:]); err != nil {
		t.Fatal(err)
	}
	f := spi.Frames()
	if len(f) != 3 || f[0].Data || !f[1].Data || f[2].Rn != 1 || rb[0] != 0xAA {
		t.Fatalf("frames: %+v read %x", f, rb[0])
	}
	if spi.FreqHz != 40_000_000 {
		t.Fatalf("write clock not restored after read: %d", spi.FreqHz)
	}
}
