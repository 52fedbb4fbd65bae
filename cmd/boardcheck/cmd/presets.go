package cmd

import (
	"fmt"
	"text/tabwriter"

	"displaycode-go/board"
	"displaycode-go/services/boardcfg"

	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List SoC capability presets and embedded board descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOC\tGPIO\tSPI HOSTS\tI2C PORTS\tSPI BASE\tMIN DIV\tSPI MAX")
			for _, n := range board.Names() {
				c, _ := board.Lookup(n)
				fmt.Fprintf(w, "%s\t%d..%d\t%v\t%v\t%d\t%d\t%d\n",
					c.Name, c.GPIOMin, c.GPIOMax, c.SPIHosts, c.I2CPorts, c.SPIBaseClockHz, c.SPIMinDivider, c.SPIMaxHz)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "BOARD\tSOC\tPANEL\tTOUCH")
			for _, n := range boardcfg.Names() {
				d, err := boardcfg.Lookup(n)
				if err != nil {
					return err
				}
				touch := d.TouchDriver
				if touch == "" {
					touch = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n, d.SoC, d.PanelDriver, touch)
			}
			return w.Flush()
		},
	}
}
