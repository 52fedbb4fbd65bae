package device

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"displaycode-go/board"
	"displaycode-go/bus"
	"displaycode-go/drivers/panel"
	"displaycode-go/drivers/spibus"
	"displaycode-go/drivers/touch"
	"displaycode-go/errcode"
	"displaycode-go/platform"
	"displaycode-go/services/boardcfg"
	"displaycode-go/types"
)

func sketch(c *qt.C) types.BoardDescription {
	d, err := boardcfg.Lookup("esp32_st7789_gt911")
	c.Assert(err, qt.IsNil)
	return d
}

func newSketchAssembly(c *qt.C, caps *board.Caps) (*Assembly, *platform.HostResources) {
	h := platform.NewHostResources()
	ctl, ok := panel.Lookup("st7789")
	c.Assert(ok, qt.IsTrue)
	s, ok := touch.Lookup("gt911")
	c.Assert(ok, qt.IsTrue)
	return New(caps, h.Resources(), Variants{Panel: ctl, Touch: s}), h
}

// wire walks the assembly to PeripheralsAttached with the sketch configs.
func wire(c *qt.C, a *Assembly, d types.BoardDescription) {
	_, err := a.ApplyBus(d.Bus)
	c.Assert(err, qt.IsNil)
	c.Assert(a.ApplyPanel(d.Panel), qt.IsNil)
	c.Assert(a.AttachTouch(d.Touch), qt.IsNil)
	c.Assert(a.AttachLight(d.Light), qt.IsNil)
}

func TestWiringOrder(t *testing.T) {
	c := qt.New(t)
	d := sketch(c)
	a, _ := newSketchAssembly(c, board.ESP32())
	c.Assert(a.State(), qt.Equals, Unconfigured)

	adj, err := a.ApplyBus(d.Bus)
	c.Assert(err, qt.IsNil)
	c.Assert(adj, qt.HasLen, 0)
	c.Assert(a.State(), qt.Equals, BusWired)

	c.Assert(a.ApplyPanel(d.Panel), qt.IsNil)
	c.Assert(a.State(), qt.Equals, PanelConfigured)
	c.Assert(a.panel.Bus(), qt.Equals, a.bus)

	c.Assert(a.AttachTouch(d.Touch), qt.IsNil)
	c.Assert(a.State(), qt.Equals, PanelConfigured)
	c.Assert(a.panel.Touch(), qt.Equals, a.touch)

	c.Assert(a.AttachLight(d.Light), qt.IsNil)
	c.Assert(a.State(), qt.Equals, PeripheralsAttached)
	c.Assert(a.panel.Light(), qt.Equals, a.light)

	dev, err := a.Seal()
	c.Assert(err, qt.IsNil)
	c.Assert(a.State(), qt.Equals, Sealed)
	got, ok := a.Device()
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, dev)
}

func TestOutOfOrderLeavesNoReferences(t *testing.T) {
	c := qt.New(t)
	d := sketch(c)
	a, _ := newSketchAssembly(c, board.ESP32())

	steps := map[string]func() error{
		"panel before bus": func() error { return a.ApplyPanel(d.Panel) },
		"touch before bus": func() error { return a.AttachTouch(d.Touch) },
		"light before bus": func() error { return a.AttachLight(d.Light) },
		"seal before bus": func() error {
			_, err := a.Seal()
			return err
		},
		"reopen unwired":   func() error { return a.Reopen() },
	}
	for name, step := range steps {
		c.Run(name, func(c *qt.C) {
			c.Assert(step(), qt.ErrorIs, errcode.OutOfOrder)
			c.Assert(a.State(), qt.Equals, Unconfigured)
			c.Assert(a.panel.Bus(), qt.IsNil)
			c.Assert(a.panel.Light(), qt.IsNil)
			c.Assert(a.panel.Touch(), qt.IsNil)
			c.Assert(a.panel.Committed(), qt.IsFalse)
		})
	}

	_, err := a.ApplyBus(d.Bus)
	c.Assert(err, qt.IsNil)
	c.Assert(a.AttachLight(d.Light), qt.ErrorIs, errcode.OutOfOrder)
	c.Assert(a.light.Committed(), qt.IsFalse)
	c.Assert(a.panel.Light(), qt.IsNil)
	_, err = a.Seal()
	c.Assert(err, qt.ErrorIs, errcode.OutOfOrder)

	c.Assert(a.ApplyPanel(d.Panel), qt.IsNil)
	_, err = a.ApplyBus(d.Bus)
	c.Assert(err, qt.ErrorIs, errcode.OutOfOrder)
	c.Assert(a.State(), qt.Equals, PanelConfigured)
	_, err = a.Seal()
	c.Assert(err, qt.ErrorIs, errcode.OutOfOrder)
}

func TestFailedApplyKeepsStateAndConfig(t *testing.T) {
	c := qt.New(t)
	d := sketch(c)
	a, _ := newSketchAssembly(c, board.ESP32())
	_, err := a.ApplyBus(d.Bus)
	c.Assert(err, qt.IsNil)

	bad := d.Panel
	bad.PanelWidth = 241
	c.Assert(a.ApplyPanel(bad), qt.ErrorIs, errcode.GeometryOutOfBounds)
	c.Assert(a.State(), qt.Equals, BusWired)
	c.Assert(a.panel.Bus(), qt.IsNil)

	badBus := d.Bus
	badBus.FreqWrite = 0
	_, err = a.ApplyBus(badBus)
	c.Assert(err, qt.ErrorIs, errcode.InvalidFrequency)
	c.Assert(a.BusConfig(), qt.DeepEquals, d.Bus)

	c.Assert(a.ApplyPanel(d.Panel), qt.IsNil)
	badTouch := d.Touch
	badTouch.XMin = badTouch.XMax
	c.Assert(a.AttachTouch(badTouch), qt.ErrorIs, errcode.DegenerateRange)
	c.Assert(a.panel.Touch(), qt.IsNil)
	c.Assert(a.State(), qt.Equals, PanelConfigured)
}

func TestReapplyBusReplacesConfig(t *testing.T) {
	c := qt.New(t)
	d := sketch(c)
	a, _ := newSketchAssembly(c, board.ESP32())
	_, err := a.ApplyBus(d.Bus)
	c.Assert(err, qt.IsNil)

	cfg := a.BusConfig()
	cfg.FreqWrite = 20_000_000
	_, err = a.ApplyBus(cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(a.bus.WriteHz(), qt.Equals, uint32(20_000_000))
	c.Assert(a.State(), qt.Equals, BusWired)
}

func TestClockAdjustmentReported(t *testing.T) {
	c := qt.New(t)
	caps := board.ESP32()
	caps.SPIMinDivider = 3
	a, _ := newSketchAssembly(c, caps)

	adj, err := a.ApplyBus(sketch(c).Bus)
	c.Assert(err, qt.IsNil)
	c.Assert(adj, qt.DeepEquals, []spibus.Adjustment{{Field: "freq_write", Requested: 40_000_000, Applied: 26_666_666}})
	c.Assert(a.Adjustments(), qt.DeepEquals, adj)
}

func TestSealedRejectsUntilReopen(t *testing.T) {
	c := qt.New(t)
	d := sketch(c)
	a, _ := newSketchAssembly(c, board.ESP32())
	wire(c, a, d)
	dev, err := a.Seal()
	c.Assert(err, qt.IsNil)

	_, err = a.ApplyBus(d.Bus)
	c.Assert(err, qt.ErrorIs, errcode.AlreadySealed)
	c.Assert(a.ApplyPanel(d.Panel), qt.ErrorIs, errcode.AlreadySealed)
	c.Assert(a.AttachTouch(d.Touch), qt.ErrorIs, errcode.AlreadySealed)
	c.Assert(a.AttachLight(d.Light), qt.ErrorIs, errcode.AlreadySealed)
	_, err = a.Seal()
	c.Assert(err, qt.ErrorIs, errcode.AlreadySealed)

	c.Assert(dev.Bus().Configure(d.Bus), qt.ErrorIs, errcode.AlreadySealed)
	c.Assert(dev.Panel().Configure(d.Panel), qt.ErrorIs, errcode.AlreadySealed)
	c.Assert(dev.Light().Configure(d.Light), qt.ErrorIs, errcode.AlreadySealed)
	c.Assert(dev.Touch().Configure(d.Touch), qt.ErrorIs, errcode.AlreadySealed)

	c.Assert(a.Reopen(), qt.IsNil)
	c.Assert(a.State(), qt.Equals, BusWired)
	c.Assert(a.panel.Bus(), qt.IsNil)
	c.Assert(a.panel.Light(), qt.IsNil)
	c.Assert(a.panel.Touch(), qt.IsNil)
	c.Assert(dev.FillRect(0, 0, 1, 1, black), qt.ErrorIs, errcode.OutOfOrder)
	c.Assert(dev.Touch(), qt.IsNil)
	_, ok := a.Device()
	c.Assert(ok, qt.IsFalse)

	// Latches released: direct configuration works again.
	c.Assert(a.bus.Configure(d.Bus), qt.IsNil)

	c.Assert(a.ApplyPanel(d.Panel), qt.IsNil)
	c.Assert(a.AttachLight(d.Light), qt.IsNil)
	again, err := a.Seal()
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, dev)
	c.Assert(dev.Touch(), qt.IsNil)
}

func TestAttachTouchWithoutSensor(t *testing.T) {
	c := qt.New(t)
	d := sketch(c)
	ctl, _ := panel.Lookup("st7789")
	a := New(board.ESP32(), platform.NewHostResources().Resources(), Variants{Panel: ctl})
	c.Assert(a.HasTouch(), qt.IsFalse)
	c.Assert(a.TouchConfig(), qt.DeepEquals, touch.DefaultConfig())

	_, err := a.ApplyBus(d.Bus)
	c.Assert(err, qt.IsNil)
	c.Assert(a.ApplyPanel(d.Panel), qt.IsNil)
	c.Assert(a.AttachTouch(d.Touch), qt.ErrorIs, errcode.Unsupported)
	c.Assert(a.AttachLight(d.Light), qt.IsNil)
	_, err = a.Seal()
	c.Assert(err, qt.IsNil)
}

func TestEventsFollowLifecycle(t *testing.T) {
	c := qt.New(t)
	d := sketch(c)
	b := bus.NewBus(16)
	conn := b.NewConnection("test")
	sub := conn.Subscribe(bus.T("display", "state"))

	a, _ := newSketchAssembly(c, board.ESP32())
	a.SetEvents(conn)
	wire(c, a, d)
	dev, err := a.Seal()
	c.Assert(err, qt.IsNil)

	var states []string
	timeout := time.After(time.Second)
	for len(states) < 5 {
		select {
		case m := <-sub.Channel():
			states = append(states, m.Payload.(string))
		case <-timeout:
			c.Fatalf("got %v", states)
		}
	}
	c.Assert(states, qt.DeepEquals, []string{"unconfigured", "bus_wired", "panel_configured", "peripherals_attached", "sealed"})

	c.Assert(dev.SetRotation(3), qt.IsNil)
	m, ok := b.Retained(TopicRotation)
	c.Assert(ok, qt.IsTrue)
	c.Assert(m.Payload, qt.Equals, 3)
}
