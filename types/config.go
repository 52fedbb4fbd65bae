package types

import (
	"displaycode-go/drivers/backlight"
	"displaycode-go/drivers/panel"
	"displaycode-go/drivers/spibus"
	"displaycode-go/drivers/touch"
)

// BoardDescription is the runtime record of one display board: which SoC,
// which controller variants, and the four peripheral configs. It carries no
// validation of its own; the peripherals validate when the assembly applies it.
type BoardDescription struct {
	Name        string `json:"name"`
	SoC         string `json:"soc"`                    // board.Lookup key
	PanelDriver string `json:"panel_driver"`           // panel.Lookup key
	TouchDriver string `json:"touch_driver,omitempty"` // touch.Lookup key; empty = no touch
	Rotation    int    `json:"rotation"`               // initial runtime rotation

	Bus   spibus.Config    `json:"bus"`
	Panel panel.Config     `json:"panel"`
	Light backlight.Config `json:"light"`
	Touch touch.Config     `json:"touch"`
}

// NewBoardDescription returns a description whose configs hold defaults, so
// a decoder only needs to overwrite the fields a board actually sets.
func NewBoardDescription() BoardDescription {
	return BoardDescription{
		SoC:         "esp32",
		PanelDriver: "st7789",
		Bus:         spibus.DefaultConfig(),
		Panel:       panel.DefaultConfig(),
		Light:       backlight.DefaultConfig(),
		Touch:       touch.DefaultConfig(),
	}
}

// HasTouch reports whether the board carries a touch overlay.
func (d *BoardDescription) HasTouch() bool { return d.TouchDriver != "" }
