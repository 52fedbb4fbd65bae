package device

import (
	"displaycode-go/board"
	"displaycode-go/drivers/panel"
	"displaycode-go/drivers/touch"
	"displaycode-go/errcode"
	"displaycode-go/platform"
	"displaycode-go/types"
	"displaycode-go/x/logx"
)

// Variant resolves the SoC preset and the controller variants a
// description names.
func Variant(desc *types.BoardDescription) (*board.Caps, Variants, error) {
	const op = "device.Build"
	caps, ok := board.Lookup(desc.SoC)
	if !ok {
		return nil, Variants{}, errcode.New(errcode.Unsupported, op, "unknown soc: "+desc.SoC)
	}
	ctl, ok := panel.Lookup(desc.PanelDriver)
	if !ok {
		return nil, Variants{}, errcode.New(errcode.Unsupported, op, "unknown panel driver: "+desc.PanelDriver)
	}
	v := Variants{Panel: ctl}
	if desc.HasTouch() {
		s, ok := touch.Lookup(desc.TouchDriver)
		if !ok {
			return nil, Variants{}, errcode.New(errcode.Unsupported, op, "unknown touch driver: "+desc.TouchDriver)
		}
		v.Touch = s
	}
	return caps, v, nil
}

// Build runs the whole wiring sequence for a description and returns the
// sealed assembly and its device. The returned assembly is nil on error.
// A zero touch address takes the sensor's default.
func Build(desc types.BoardDescription, res platform.Resources) (*Assembly, *Device, error) {
	caps, v, err := Variant(&desc)
	if err != nil {
		return nil, nil, err
	}
	a := New(caps, res, v)
	if _, err := a.ApplyBus(desc.Bus); err != nil {
		return nil, nil, err
	}
	if err := a.ApplyPanel(desc.Panel); err != nil {
		return nil, nil, err
	}
	if v.Touch != nil {
		tc := desc.Touch
		if tc.Addr == 0 {
			tc.Addr = v.Touch.DefaultAddr()
		}
		if err := a.AttachTouch(tc); err != nil {
			return nil, nil, err
		}
	}
	if err := a.AttachLight(desc.Light); err != nil {
		return nil, nil, err
	}
	dev, err := a.Seal()
	if err != nil {
		return nil, nil, err
	}
	if err := dev.SetRotation(desc.Rotation); err != nil {
		return nil, nil, err
	}
	logx.Info(logx.ComponentAssembly, "built", "board", desc.Name, "soc", caps.Name, "panel", desc.PanelDriver, "touch", desc.TouchDriver)
	return a, dev, nil
}
