package cmd

import (
	"fmt"
	"text/tabwriter"

	"displaycode-go/device"
	"displaycode-go/platform"
	"displaycode-go/x/orient"

	"github.com/spf13/cobra"
)

func newRotationCmd() *cobra.Command {
	var boardArg string
	cmd := &cobra.Command{
		Use:   "rotation",
		Short: "Print the effective orientation, size and MADCTL byte for every rotation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadBoard(boardArg)
			if err != nil {
				return err
			}
			_, dev, err := device.Build(d, platform.NewHostResources().Resources())
			if err != nil {
				return err
			}
			p := dev.Panel()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "offset %d\n", d.Panel.OffsetRotation)
			fmt.Fprintln(w, "REQUESTED\tEFFECTIVE\tQUARTER\tMIRRORED\tSIZE\tMADCTL")
			for r := 0; r < orient.Total; r++ {
				if err := dev.SetRotation(r); err != nil {
					return err
				}
				q, mirrored := orient.Split(p.Effective())
				sw, sh := dev.Size()
				fmt.Fprintf(w, "%d\t%d\t%d\t%t\t%dx%d\t0x%02X\n", r, p.Effective(), q, mirrored, sw, sh, p.MADCTL())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&boardArg, "board", "b", "esp32_st7789_gt911", "board file or embedded name")
	return cmd
}
