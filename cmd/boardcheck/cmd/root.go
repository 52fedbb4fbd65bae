package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"displaycode-go/services/boardcfg"
	"displaycode-go/types"
	"displaycode-go/x/logx"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "boardcheck",
		Short: "Display board description checker",
		Long: `Validate display board descriptions and run the wiring sequence
(bus, panel, touch, backlight, seal) against host fakes.

A board is either the name of an embedded description or a file in JSON
or line format.

Examples:
  boardcheck presets                                 # List SoCs and embedded boards
  boardcheck validate esp32_st7789_gt911             # Wire an embedded board
  boardcheck validate myboard.txt -r 1               # Wire a board file, rotation 1
  boardcheck touch 120 40 -b esp32_st7789_gt911      # Map a raw touch point
  boardcheck rotation -b rp2040_ili9341              # Rotation table`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.SetLogger(logx.New(cmd.ErrOrStderr()))
			if verbose {
				logx.SetLevel(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newPresetsCmd(), newValidateCmd(), newTouchCmd(), newRotationCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadBoard reads a description file, falling back to an embedded name.
func loadBoard(arg string) (types.BoardDescription, error) {
	b, err := os.ReadFile(arg)
	switch {
	case err == nil:
		d, err := boardcfg.Parse(string(b))
		if err != nil {
			return d, fmt.Errorf("%s: %w", arg, err)
		}
		return d, nil
	case errors.Is(err, fs.ErrNotExist):
		return boardcfg.Lookup(arg)
	default:
		return types.BoardDescription{}, err
	}
}
