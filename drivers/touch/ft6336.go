package touch

import (
	"tinygo.org/x/drivers"
	drvtouch "tinygo.org/x/drivers/touch"
)

func init() { Register("ft6336", func() Sensor { return ft6336{} }) }

const (
	ft6336TDStatus = 0x02
	ft6336ChipID   = 0xA8
)

type ft6336 struct{}

func (ft6336) DefaultAddr() uint16 { return 0x38 }

func (ft6336) Init(bus drivers.I2C, addr uint16) error {
	var id [1]byte
	return bus.Tx(addr, []byte{ft6336ChipID}, id[:])
}

// Read fetches TD_STATUS and the first point (P1_XH..P1_WEIGHT) in one burst.
func (ft6336) Read(bus drivers.I2C, addr uint16) (drvtouch.Point, error) {
	var b [6]byte
	if err := bus.Tx(addr, []byte{ft6336TDStatus}, b[:]); err != nil {
		return drvtouch.Point{}, err
	}
	if n := b[0] & 0x0F; n == 0 || n > 2 {
		return drvtouch.Point{}, nil
	}
	p := drvtouch.Point{
		X: int(b[1]&0x0F)<<8 | int(b[2]),
		Y: int(b[3]&0x0F)<<8 | int(b[4]),
		Z: int(b[5]),
	}
	if p.Z == 0 {
		p.Z = 1
	}
	return p, nil
}
