// Package platform is the seam between peripheral configs and the hardware
// handles they drive. Peripherals resolve handles through these factories
// after validation; nothing here validates.
package platform

import "tinygo.org/x/drivers"

// GPIO is a digital line. Outputs use Set; inputs use Get.
type GPIO interface {
	Number() int
	Set(level bool)
	Get() bool
}

// PWM is one PWM channel bound to a pin.
type PWM interface {
	// Configure sets the period from freqHz with levels 0..top.
	Configure(freqHz uint32, top uint16) error
	Set(level uint16)
}

type SPIFactory interface {
	// ByHost returns the SPI controller configured for the given mode and clock.
	ByHost(host int, mode uint8, freqHz uint32) (drivers.SPI, bool)
}

type I2CFactory interface {
	ByPort(port int, freqHz uint32) (drivers.I2C, bool)
}

type PinFactory interface {
	ByNumber(n int) (GPIO, bool)
}

type PWMFactory interface {
	ByChannel(ch int, pin int) (PWM, bool)
}

// Resources bundles the factories a peripheral may need.
type Resources struct {
	SPI  SPIFactory
	I2C  I2CFactory
	Pins PinFactory
	PWM  PWMFactory
}
