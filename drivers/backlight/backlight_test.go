package backlight

import (
	"errors"
	"testing"
	"time"

	"displaycode-go/board"
	"displaycode-go/errcode"
	"displaycode-go/platform"
)

func sketchConfig() Config {
	return Config{PinBL: 27, Invert: false, Freq: 44100, PWMChannel: 7}
}

func TestConfigureAndBrightness(t *testing.T) {
	h := platform.NewHostResources()
	l := New(board.ESP32(), h.Resources())
	if err := l.Init(); !errors.Is(err, errcode.OutOfOrder) {
		t.Fatalf("init before configure: %v", err)
	}
	if err := l.Configure(sketchConfig()); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	pwm, ok := h.PWM.Get(7)
	if !ok || pwm.FreqHz != 44100 || pwm.Top != 255 || pwm.Pin != 27 {
		t.Fatalf("pwm setup: %+v", pwm)
	}
	if pwm.Get() != 255 {
		t.Fatalf("init brightness %d", pwm.Get())
	}
	l.SetBrightness(64)
	if pwm.Get() != 64 {
		t.Fatalf("brightness %d", pwm.Get())
	}
}

func TestInvertedBrightness(t *testing.T) {
	h := platform.NewHostResources()
	l := New(board.ESP32(), h.Resources())
	cfg := sketchConfig()
	cfg.Invert = true
	if err := l.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	_ = l.Init()
	l.SetBrightness(200)
	pwm, _ := h.PWM.Get(7)
	if pwm.Get() != 55 {
		t.Fatalf("inverted level %d", pwm.Get())
	}
}

func TestConfigureRejects(t *testing.T) {
	cases := map[string]struct {
		mut  func(*Config)
		want errcode.Code
	}{
		"no pin":       {func(c *Config) { c.PinBL = board.NoPin }, errcode.InvalidPin},
		"input-only":   {func(c *Config) { c.PinBL = 39 }, errcode.InvalidPin},
		"channel":      {func(c *Config) { c.PWMChannel = 16 }, errcode.InvalidParams},
		"zero freq":    {func(c *Config) { c.Freq = 0 }, errcode.InvalidFrequency},
		"freq too big": {func(c *Config) { c.Freq = 50_000_000 }, errcode.InvalidFrequency},
	}
	for name, tc := range cases {
		l := New(board.ESP32(), platform.NewHostResources().Resources())
		cfg := sketchConfig()
		tc.mut(&cfg)
		if err := l.Configure(cfg); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", name, err, tc.want)
		}
		if l.Committed() || l.Config() != DefaultConfig() {
			t.Fatalf("%s: rejected config committed", name)
		}
	}
}

func TestFadeTo(t *testing.T) {
	h := platform.NewHostResources()
	l := New(board.ESP32(), h.Resources())
	if err := l.Configure(sketchConfig()); err != nil {
		t.Fatal(err)
	}
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	pwm, _ := h.PWM.Get(7)
	var levels []uint16
	tick := func(time.Duration) bool {
		levels = append(levels, pwm.Get())
		return true
	}
	if !l.FadeTo(55, 40*time.Millisecond, 4, tick) {
		t.Fatal("fade cancelled")
	}
	if l.Brightness() != 55 || pwm.Get() != 55 {
		t.Fatalf("final brightness %d, pwm %d", l.Brightness(), pwm.Get())
	}
	// Level seen before each step: 255, 205, 155, 105.
	if len(levels) != 4 || levels[0] != 255 || levels[3] != 105 {
		t.Fatalf("levels %v", levels)
	}
}
