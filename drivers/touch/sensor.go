package touch

import (
	"sync"

	"tinygo.org/x/drivers"
	drvtouch "tinygo.org/x/drivers/touch"
)

// Sensor is one touch controller variant. Read returns Z == 0 when nothing
// is touching the panel.
type Sensor interface {
	DefaultAddr() uint16
	Init(bus drivers.I2C, addr uint16) error
	Read(bus drivers.I2C, addr uint16) (drvtouch.Point, error)
}

var (
	regMu   sync.RWMutex
	sensors = map[string]func() Sensor{}
)

// Register makes a sensor variant selectable by name.
func Register(name string, f func() Sensor) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := sensors[name]; exists {
		panic("duplicate touch sensor: " + name)
	}
	sensors[name] = f
}

// Lookup returns a fresh sensor of the named variant.
func Lookup(name string) (Sensor, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := sensors[name]
	if !ok {
		return nil, false
	}
	return f(), true
}
