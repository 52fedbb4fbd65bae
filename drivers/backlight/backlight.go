// Package backlight drives panel brightness through one PWM channel.
package backlight

import (
	"strconv"
	"time"

	"displaycode-go/board"
	"displaycode-go/drivers/periph"
	"displaycode-go/errcode"
	"displaycode-go/platform"
	"displaycode-go/x/logx"
	"displaycode-go/x/ramp"
)

// Config is the PWM backlight record.
type Config struct {
	PinBL      board.Pin `json:"pin_bl"`
	Invert     bool      `json:"invert"` // brightness 255 drives the line low
	Freq       uint32    `json:"freq"`   // PWM frequency in Hz
	PWMChannel int       `json:"pwm_channel"`
}

// DefaultConfig returns a config with no pin wired.
func DefaultConfig() Config {
	return Config{PinBL: board.NoPin, Freq: 1200, PWMChannel: 7}
}

const (
	opConfigure = "backlight.Configure"
	top         = 255
)

// Validate checks pin, channel and frequency ranges.
func (cfg Config) Validate(caps *board.Caps) error {
	if err := caps.CheckPin(opConfigure, "pin_bl", cfg.PinBL, board.Output, false); err != nil {
		return err
	}
	if !caps.HasPWMChannel(cfg.PWMChannel) {
		return errcode.New(errcode.InvalidParams, opConfigure, "pwm_channel="+strconv.Itoa(cfg.PWMChannel)+" not available")
	}
	if cfg.Freq == 0 || cfg.Freq > caps.PWMMaxHz {
		return errcode.New(errcode.InvalidFrequency, opConfigure, "freq="+strconv.FormatUint(uint64(cfg.Freq), 10)+" out of range")
	}
	return nil
}

// Light is the backlight peripheral.
type Light struct {
	periph.Latch

	caps *board.Caps
	res  platform.Resources

	cfg        Config
	committed  bool
	pwm        platform.PWM
	brightness uint8
}

func New(caps *board.Caps, res platform.Resources) *Light {
	return &Light{caps: caps, res: res, cfg: DefaultConfig(), brightness: top}
}

func (l *Light) Config() Config { return l.cfg }

// Configure validates and commits cfg; a rejected cfg leaves the previous one in place.
func (l *Light) Configure(cfg Config) error {
	if err := l.Check(opConfigure); err != nil {
		return err
	}
	if err := cfg.Validate(l.caps); err != nil {
		return err
	}
	if l.res.PWM == nil {
		return errcode.New(errcode.Unsupported, opConfigure, "no PWM factory")
	}
	pwm, ok := l.res.PWM.ByChannel(cfg.PWMChannel, int(cfg.PinBL))
	if !ok {
		return errcode.New(errcode.InvalidParams, opConfigure, "pwm_channel unavailable")
	}
	l.cfg, l.pwm, l.committed = cfg, pwm, true
	logx.Debug(logx.ComponentLight, "configured", "pin", cfg.PinBL, "freq", cfg.Freq, "channel", cfg.PWMChannel, "invert", cfg.Invert)
	return nil
}

func (l *Light) Committed() bool { return l.committed }

// Init programs the PWM period and restores the current brightness.
func (l *Light) Init() error {
	if !l.committed {
		return errcode.New(errcode.OutOfOrder, "backlight.Init", "not configured")
	}
	if err := l.pwm.Configure(l.cfg.Freq, top); err != nil {
		return err
	}
	l.pwm.Set(l.toPhys(l.brightness))
	return nil
}

// SetBrightness sets the logical brightness 0..255.
func (l *Light) SetBrightness(b uint8) {
	l.brightness = b
	if l.pwm != nil {
		l.pwm.Set(l.toPhys(b))
	}
}

func (l *Light) Brightness() uint8 { return l.brightness }

// FadeTo ramps the brightness to b in steps spread over d. It reports false
// when tick cancels part way; the brightness then stays where it stopped.
func (l *Light) FadeTo(b uint8, d time.Duration, steps uint16, tick ramp.Tick) bool {
	return ramp.Linear(uint16(l.brightness), uint16(b), d, steps, tick, func(v uint16) {
		l.SetBrightness(uint8(v))
	})
}

func (l *Light) toPhys(b uint8) uint16 {
	if l.cfg.Invert {
		return top - uint16(b)
	}
	return uint16(b)
}
