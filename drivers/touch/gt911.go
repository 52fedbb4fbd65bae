package touch

import (
	"tinygo.org/x/drivers"
	drvtouch "tinygo.org/x/drivers/touch"
)

func init() { Register("gt911", func() Sensor { return gt911{} }) }

// GT911 registers are 16-bit, big endian on the wire.
const (
	gt911Command   = 0x8040
	gt911ProductID = 0x8140
	gt911Status    = 0x814E
	gt911Point1    = 0x8150
)

type gt911 struct{}

func (gt911) DefaultAddr() uint16 { return 0x5D }

func (gt911) Init(bus drivers.I2C, addr uint16) error {
	var id [4]byte
	if err := bus.Tx(addr, reg16(gt911ProductID), id[:]); err != nil {
		return err
	}
	// 0 = read coordinates
	return bus.Tx(addr, append(reg16(gt911Command), 0), nil)
}

func (gt911) Read(bus drivers.I2C, addr uint16) (drvtouch.Point, error) {
	var st [1]byte
	if err := bus.Tx(addr, reg16(gt911Status), st[:]); err != nil {
		return drvtouch.Point{}, err
	}
	ready, n := st[0]&0x80 != 0, st[0]&0x0F
	if !ready {
		return drvtouch.Point{}, nil
	}
	var p drvtouch.Point
	if n > 0 {
		var b [6]byte
		if err := bus.Tx(addr, reg16(gt911Point1), b[:]); err != nil {
			return drvtouch.Point{}, err
		}
		p.X = int(b[0]) | int(b[1])<<8
		p.Y = int(b[2]) | int(b[3])<<8
		p.Z = int(b[4]) | int(b[5])<<8
		if p.Z == 0 {
			p.Z = 1
		}
	}
	// Acknowledge the buffer so the controller refills it.
	return p, bus.Tx(addr, append(reg16(gt911Status), 0), nil)
}

func reg16(r uint16) []byte { return []byte{byte(r >> 8), byte(r)} }
