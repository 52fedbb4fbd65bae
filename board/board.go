// Package board describes what a SoC can do: GPIO range, bus controllers,
// DMA and PWM channels and clock limits. It must not include wiring choices
// (pins) or operating parameters (clock rates); those live in peripheral
// configs and are validated against a Caps value.
package board

import (
	"strconv"

	"displaycode-go/errcode"
	"displaycode-go/x/mathx"

	"golang.org/x/exp/slices"
)

// Pin is a GPIO number. NoPin marks an optional signal as not connected.
type Pin int16

const NoPin Pin = -1

// Connected reports whether p names a GPIO rather than NoPin.
func (p Pin) Connected() bool { return p >= 0 }

// Use says how a peripheral drives a pin.
type Use uint8

const (
	Output Use = iota // push-pull or open-drain output (includes bidirectional lines)
	Input             // sensed only
)

// Caps is the capability descriptor of one SoC.
type Caps struct {
	Name             string
	GPIOMin, GPIOMax int

	Reserved  []int // strapped or flash-attached GPIOs, never usable
	InputOnly []int

	// Controller identities.
	SPIHosts    []int
	I2CPorts    []int
	DMAChannels []int // 0 is always "DMA disabled" and never listed
	PWMChannels int

	// SPI clock is derived as SPIBaseClockHz / divider with divider >= SPIMinDivider.
	SPIBaseClockHz uint32
	SPIMinDivider  uint32
	SPIMaxHz       uint32

	I2CMaxHz uint32
	PWMMaxHz uint32
}

// CheckPin validates p for the given use. Optional pins accept NoPin.
// field names the config field in the returned error.
func (c *Caps) CheckPin(op, field string, p Pin, use Use, optional bool) error {
	if !p.Connected() {
		if optional && p == NoPin {
			return nil
		}
		return errcode.New(errcode.InvalidPin, op, field+" is required")
	}
	n := int(p)
	switch {
	case !mathx.Between(n, c.GPIOMin, c.GPIOMax):
		return errcode.New(errcode.InvalidPin, op, field+"="+strconv.Itoa(n)+" outside GPIO range")
	case slices.Contains(c.Reserved, n):
		return errcode.New(errcode.InvalidPin, op, field+"="+strconv.Itoa(n)+" is reserved")
	case use == Output && slices.Contains(c.InputOnly, n):
		return errcode.New(errcode.InvalidPin, op, field+"="+strconv.Itoa(n)+" is input-only")
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Caps) Clone() *Caps {
	out := *c
	out.Reserved = slices.Clone(c.Reserved)
	out.InputOnly = slices.Clone(c.InputOnly)
	out.SPIHosts = slices.Clone(c.SPIHosts)
	out.I2CPorts = slices.Clone(c.I2CPorts)
	out.DMAChannels = slices.Clone(c.DMAChannels)
	return &out
}

// HasSPIHost reports whether host is an SPI controller on this SoC.
func (c *Caps) HasSPIHost(host int) bool { return slices.Contains(c.SPIHosts, host) }

// HasI2CPort reports whether port is an I²C controller on this SoC.
func (c *Caps) HasI2CPort(port int) bool { return slices.Contains(c.I2CPorts, port) }

// HasDMAChannel reports whether ch is usable; 0 (disabled) is always accepted.
func (c *Caps) HasDMAChannel(ch int) bool { return ch == 0 || slices.Contains(c.DMAChannels, ch) }

// HasPWMChannel reports whether ch is within the PWM channel count.
func (c *Caps) HasPWMChannel(ch int) bool { return ch >= 0 && ch < c.PWMChannels }

// SPIClock returns the fastest achievable SPI clock not above requested.
// The divider is ceil(base/requested), raised to the SoC minimum.
func (c *Caps) SPIClock(requested uint32) uint32 {
	if requested == 0 || c.SPIBaseClockHz == 0 {
		return 0
	}
	div := mathx.Max(mathx.CeilDiv(c.SPIBaseClockHz, requested), mathx.Max(c.SPIMinDivider, 1))
	return c.SPIBaseClockHz / div
}
