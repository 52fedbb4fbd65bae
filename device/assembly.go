// Package device composes one display: it owns the bus, panel, backlight and
// optional touch of a board and wires them in a fixed order.
//
//	Unconfigured -> BusWired -> PanelConfigured -> PeripheralsAttached -> Sealed
//
// Each step validates and commits one peripheral. A call from the wrong state
// fails with out_of_order and changes nothing. Once sealed, every change fails
// with already_sealed until Reopen drops the assembly back to BusWired.
package device

import (
	"displaycode-go/board"
	"displaycode-go/bus"
	"displaycode-go/drivers/backlight"
	"displaycode-go/drivers/panel"
	"displaycode-go/drivers/periph"
	"displaycode-go/drivers/spibus"
	"displaycode-go/drivers/touch"
	"displaycode-go/errcode"
	"displaycode-go/platform"
	"displaycode-go/x/logx"
)

// State is the wiring stage of an assembly.
type State uint8

const (
	Unconfigured State = iota
	BusWired
	PanelConfigured
	PeripheralsAttached
	Sealed
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case BusWired:
		return "bus_wired"
	case PanelConfigured:
		return "panel_configured"
	case PeripheralsAttached:
		return "peripherals_attached"
	case Sealed:
		return "sealed"
	}
	return "unknown"
}

// Topics published on the optional event bus. State and rotation are retained.
var (
	TopicState      = bus.T("display", "state")
	TopicRotation   = bus.T("display", "rotation")
	TopicAdjustment = bus.T("display", "adjustment")
)

// Variants selects the controller and touch sensor of a board. A nil Touch
// builds an assembly without touch.
type Variants struct {
	Panel panel.Controller
	Touch touch.Sensor
}

// Assembly owns the peripherals of one display.
type Assembly struct {
	state State

	bus   *spibus.Bus
	panel *panel.Panel
	light *backlight.Light
	touch *touch.Touch // nil without a sensor variant

	touchAttached bool
	dev           *Device
	conn          *bus.Connection
}

// New creates an unconfigured assembly. Peripherals start from their
// default configs; nothing touches hardware until a config is applied.
func New(caps *board.Caps, res platform.Resources, v Variants) *Assembly {
	a := &Assembly{
		bus:   spibus.New(caps, res),
		panel: panel.New(caps, res, v.Panel),
		light: backlight.New(caps, res),
	}
	if v.Touch != nil {
		a.touch = touch.New(caps, res, v.Touch)
	}
	a.dev = &Device{a: a}
	return a
}

// SetEvents publishes lifecycle events on conn, starting with the current
// state. Nil disables them.
func (a *Assembly) SetEvents(conn *bus.Connection) {
	a.conn = conn
	a.publish(TopicState, a.state.String(), true)
	if a.state == Sealed {
		a.publish(TopicRotation, int(a.panel.Rotation()), true)
	}
}

func (a *Assembly) publish(t bus.Topic, payload any, retained bool) {
	if a.conn != nil {
		a.conn.Publish(&bus.Message{Topic: t, Payload: payload, Retained: retained})
	}
}

func (a *Assembly) State() State { return a.state }

// HasTouch reports whether the assembly was built with a touch sensor.
func (a *Assembly) HasTouch() bool { return a.touch != nil }

// Current configs, to be mutated by the caller and applied.
func (a *Assembly) BusConfig() spibus.Config      { return a.bus.Config() }
func (a *Assembly) PanelConfig() panel.Config     { return a.panel.Config() }
func (a *Assembly) LightConfig() backlight.Config { return a.light.Config() }

// TouchConfig returns the touch config, or the defaults when there is no sensor.
func (a *Assembly) TouchConfig() touch.Config {
	if a.touch == nil {
		return touch.DefaultConfig()
	}
	return a.touch.Config()
}

// Adjustments returns the clock roundings of the committed bus config.
func (a *Assembly) Adjustments() []spibus.Adjustment { return a.bus.Adjustments() }

func (a *Assembly) allow(op string, from ...State) error {
	if a.state == Sealed {
		return errcode.New(errcode.AlreadySealed, op, "reopen the assembly first")
	}
	for _, s := range from {
		if a.state == s {
			return nil
		}
	}
	return errcode.New(errcode.OutOfOrder, op, "not allowed in state "+a.state.String())
}

func (a *Assembly) move(to State) {
	if a.state == to {
		return
	}
	logx.Debug(logx.ComponentAssembly, "transition", "from", a.state.String(), "to", to.String())
	a.state = to
	a.publish(TopicState, to.String(), true)
}

// ApplyBus validates and commits the bus config. Re-applying before the
// panel is configured replaces the previous bus config.
func (a *Assembly) ApplyBus(cfg spibus.Config) ([]spibus.Adjustment, error) {
	const op = "device.ApplyBus"
	if err := a.allow(op, Unconfigured, BusWired); err != nil {
		return nil, err
	}
	if err := a.bus.Configure(cfg); err != nil {
		return nil, err
	}
	adj := a.bus.Adjustments()
	for _, x := range adj {
		a.publish(TopicAdjustment, x, false)
	}
	a.move(BusWired)
	return adj, nil
}

// ApplyPanel validates and commits the panel config and wires the bus.
func (a *Assembly) ApplyPanel(cfg panel.Config) error {
	const op = "device.ApplyPanel"
	if err := a.allow(op, BusWired, PanelConfigured); err != nil {
		return err
	}
	if err := a.panel.Configure(cfg); err != nil {
		return err
	}
	a.panel.SetBus(a.bus)
	a.move(PanelConfigured)
	return nil
}

// AttachTouch validates and commits the touch config and hands the touch
// to the panel. Boards without a sensor variant report unsupported.
func (a *Assembly) AttachTouch(cfg touch.Config) error {
	const op = "device.AttachTouch"
	if err := a.allow(op, PanelConfigured, PeripheralsAttached); err != nil {
		return err
	}
	if a.touch == nil {
		return errcode.New(errcode.Unsupported, op, "board has no touch sensor")
	}
	if err := a.touch.Configure(cfg); err != nil {
		return err
	}
	a.panel.SetTouch(a.touch)
	a.touchAttached = true
	return nil
}

// AttachLight validates and commits the backlight config and hands the
// backlight to the panel.
func (a *Assembly) AttachLight(cfg backlight.Config) error {
	const op = "device.AttachLight"
	if err := a.allow(op, PanelConfigured, PeripheralsAttached); err != nil {
		return err
	}
	if err := a.light.Configure(cfg); err != nil {
		return err
	}
	a.panel.SetLight(a.light)
	a.move(PeripheralsAttached)
	return nil
}

func (a *Assembly) sealers() []periph.Sealer {
	s := []periph.Sealer{a.bus, a.panel, a.light}
	if a.touch != nil {
		s = append(s, a.touch)
	}
	return s
}

// Seal latches every peripheral and returns the composed device.
func (a *Assembly) Seal() (*Device, error) {
	if err := a.allow("device.Seal", PeripheralsAttached); err != nil {
		return nil, err
	}
	for _, s := range a.sealers() {
		s.Seal()
	}
	a.move(Sealed)
	a.publish(TopicRotation, int(a.panel.Rotation()), true)
	return a.dev, nil
}

// Reopen releases the latches and drops the panel's references so the
// panel and its peripherals must be applied again. The bus config stays.
func (a *Assembly) Reopen() error {
	if a.state == Unconfigured {
		return errcode.New(errcode.OutOfOrder, "device.Reopen", "no bus applied")
	}
	for _, s := range a.sealers() {
		s.Unseal()
	}
	a.panel.SetBus(nil)
	a.panel.SetLight(nil)
	a.panel.SetTouch(nil)
	a.touchAttached = false
	a.move(BusWired)
	return nil
}

// Device returns the composed device while sealed.
func (a *Assembly) Device() (*Device, bool) {
	return a.dev, a.state == Sealed
}
