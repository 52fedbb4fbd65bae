package device

import (
	"image/color"

	"displaycode-go/drivers/backlight"
	"displaycode-go/drivers/panel"
	"displaycode-go/drivers/spibus"
	"displaycode-go/drivers/touch"
	"displaycode-go/errcode"

	"tinygo.org/x/drivers"
	drvtouch "tinygo.org/x/drivers/touch"
)

// Device is the composed display handed out by a sealed assembly. Its
// methods fail with out_of_order (or do nothing) once the assembly is reopened.
type Device struct {
	a *Assembly
}

var (
	_ drivers.Displayer = (*Device)(nil)
	_ drvtouch.Pointer  = (*Device)(nil)
)

func (d *Device) live(op string) error {
	if d.a.state != Sealed {
		return errcode.New(errcode.OutOfOrder, op, "assembly not sealed")
	}
	return nil
}

// Init resets the panel and brings up the backlight and touch.
func (d *Device) Init() error {
	if err := d.live("device.Init"); err != nil {
		return err
	}
	return d.a.panel.Init()
}

// SetRotation selects the runtime rotation, 0..7 with 4..7 mirrored.
// Values outside that range are reduced modulo 8.
func (d *Device) SetRotation(r int) error {
	if err := d.live("device.SetRotation"); err != nil {
		return err
	}
	if err := d.a.panel.SetRotation(r); err != nil {
		return err
	}
	d.a.publish(TopicRotation, int(d.a.panel.Rotation()), true)
	return nil
}

// Rotation returns the requested rotation without the panel offset.
func (d *Device) Rotation() drivers.Rotation { return d.a.panel.Rotation() }

// Size returns the visible size in the current orientation.
func (d *Device) Size() (x, y int16) { return d.a.panel.Size() }

func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	if d.a.state == Sealed {
		d.a.panel.SetPixel(x, y, c)
	}
}

func (d *Device) FillRect(x, y, w, h int16, c color.RGBA) error {
	if err := d.live("device.FillRect"); err != nil {
		return err
	}
	return d.a.panel.FillRect(x, y, w, h, c)
}

func (d *Device) ReadPixel(x, y int16) (color.RGBA, error) {
	if err := d.live("device.ReadPixel"); err != nil {
		return color.RGBA{}, err
	}
	return d.a.panel.ReadPixel(x, y)
}

func (d *Device) Display() error {
	if err := d.live("device.Display"); err != nil {
		return err
	}
	return d.a.panel.Display()
}

// SetBrightness drives the backlight, 0 off and 255 full.
func (d *Device) SetBrightness(b uint8) error {
	if err := d.live("device.SetBrightness"); err != nil {
		return err
	}
	d.a.light.SetBrightness(b)
	return nil
}

// GetTouchPoint returns the current touch in the current drawing frame.
func (d *Device) GetTouchPoint() (x, y int, ok bool) {
	p, ok := d.touchPoint()
	return p.X, p.Y, ok
}

// ReadTouchPoint reports Z=0 when nothing is touching.
func (d *Device) ReadTouchPoint() drvtouch.Point {
	p, _ := d.touchPoint()
	return p
}

func (d *Device) touchPoint() (drvtouch.Point, bool) {
	if d.a.state != Sealed || !d.a.touchAttached {
		return drvtouch.Point{}, false
	}
	return d.a.panel.TouchPoint()
}

// Peripheral accessors. Their Configure methods fail while sealed.
func (d *Device) Bus() *spibus.Bus        { return d.a.bus }
func (d *Device) Panel() *panel.Panel     { return d.a.panel }
func (d *Device) Light() *backlight.Light { return d.a.light }

// Touch returns nil when the board has no touch attached.
func (d *Device) Touch() *touch.Touch {
	if !d.a.touchAttached {
		return nil
	}
	return d.a.touch
}
