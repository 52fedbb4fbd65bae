package cmd

import (
	"fmt"
	"strconv"

	"displaycode-go/board"
	"displaycode-go/x/orient"

	"github.com/spf13/cobra"
)

func newTouchCmd() *cobra.Command {
	var (
		boardArg string
		offset   int
	)
	cmd := &cobra.Command{
		Use:   "touch <x> <y>",
		Short: "Map a raw touch reading into panel coordinates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			d, err := loadBoard(boardArg)
			if err != nil {
				return err
			}
			if !d.HasTouch() {
				return fmt.Errorf("%s has no touch sensor", boardArg)
			}
			tc := d.Touch
			if cmd.Flags().Changed("offset") {
				if offset < 0 || offset >= orient.Total {
					return fmt.Errorf("offset %d not in 0..%d", offset, orient.Total-1)
				}
				tc.OffsetRotation = uint8(offset)
			}
			caps, ok := board.Lookup(d.SoC)
			if !ok {
				return fmt.Errorf("unknown soc %q", d.SoC)
			}
			if err := tc.Validate(caps); err != nil {
				return err
			}
			w, h := int(d.Panel.PanelWidth), int(d.Panel.PanelHeight)
			px, py := tc.Transform(x, y, w, h)
			fmt.Fprintf(cmd.OutOrStdout(), "raw (%d,%d) -> panel (%d,%d) [bounds x %d..%d y %d..%d, offset %d, panel %dx%d]\n",
				x, y, px, py, tc.XMin, tc.XMax, tc.YMin, tc.YMax, tc.OffsetRotation, w, h)
			return nil
		},
	}
	cmd.Flags().StringVarP(&boardArg, "board", "b", "esp32_st7789_gt911", "board file or embedded name")
	cmd.Flags().IntVar(&offset, "offset", 0, "override the touch rotation offset (0..7)")
	return cmd
}
