package cmd

import (
	"fmt"
	"time"

	"displaycode-go/bus"
	"displaycode-go/device"
	"displaycode-go/drivers/spibus"
	"displaycode-go/platform"
	"displaycode-go/types"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		rotation int
		initDev  bool
	)
	cmd := &cobra.Command{
		Use:   "validate <file|name>",
		Short: "Wire a board description on host fakes and report the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rotation") {
				d.Rotation = rotation
			}
			return runValidate(cmd, d, initDev)
		},
	}
	cmd.Flags().IntVarP(&rotation, "rotation", "r", 0, "override the initial rotation")
	cmd.Flags().BoolVar(&initDev, "init", false, "also run the panel init sequence")
	return cmd
}

func runValidate(cmd *cobra.Command, d types.BoardDescription, initDev bool) error {
	out := cmd.OutOrStdout()
	events := bus.NewBus(32)
	conn := events.NewConnection("boardcheck")
	defer conn.Disconnect()
	sub := conn.Subscribe(bus.T("display", "#"))

	h := platform.NewHostResources()
	if d.Bus.PinDC.Connected() {
		h.SPI.Get(d.Bus.Host).DC = h.Pins.Pin(int(d.Bus.PinDC))
	}

	caps, v, err := device.Variant(&d)
	if err != nil {
		return err
	}
	a := device.New(caps, h.Resources(), v)
	a.SetEvents(conn)

	step := func(name string, err error) error {
		drain(cmd, sub)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
	_, err = a.ApplyBus(d.Bus)
	if err := step("bus", err); err != nil {
		return err
	}
	if err := step("panel", a.ApplyPanel(d.Panel)); err != nil {
		return err
	}
	if v.Touch != nil {
		tc := d.Touch
		if tc.Addr == 0 {
			tc.Addr = v.Touch.DefaultAddr()
		}
		if err := step("touch", a.AttachTouch(tc)); err != nil {
			return err
		}
	}
	if err := step("light", a.AttachLight(d.Light)); err != nil {
		return err
	}
	dev, err := a.Seal()
	if err := step("seal", err); err != nil {
		return err
	}
	if err := step("rotation", dev.SetRotation(d.Rotation)); err != nil {
		return err
	}
	if initDev {
		dev.Panel().SetSleep(func(time.Duration) {})
		if err := step("init", dev.Init()); err != nil {
			return err
		}
		fmt.Fprintf(out, "init: %d spi transfers\n", len(h.SPI.Get(d.Bus.Host).Frames()))
	}

	w, ht := dev.Size()
	fmt.Fprintf(out, "ok: %s (%s, %s) %dx%d rotation %d, spi write %d Hz read %d Hz\n",
		d.Name, caps.Name, d.PanelDriver, w, ht, dev.Rotation(), dev.Bus().WriteHz(), dev.Bus().ReadHz())
	return nil
}

// drain prints the queued lifecycle events.
func drain(cmd *cobra.Command, sub *bus.Subscription) {
	for {
		select {
		case m := <-sub.Channel():
			switch p := m.Payload.(type) {
			case spibus.Adjustment:
				fmt.Fprintf(cmd.OutOrStdout(), "adjusted: %s\n", p)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", m.Topic, p)
			}
		default:
			return
		}
	}
}
