package boardcfg

import (
	"strings"

	"displaycode-go/errcode"
	"displaycode-go/types"

	"golang.org/x/exp/slices"
)

// ESP32 with a 240x320 ST7789 on SPI2 (3-wire, MISO kept for reads) and a
// GT911 touch overlay on I2C port 1.
const descESP32ST7789GT911 = `
board name=esp32_st7789_gt911 soc=esp32 panel_driver=st7789 touch_driver=gt911

bus spi_host=1 spi_mode=0 freq_write=40000000 freq_read=16000000
bus spi_3wire=true use_lock=true dma_channel=1 read_shared=true
bus pin_sclk=14 pin_mosi=13 pin_miso=12 pin_dc=2

panel pin_cs=15 pin_rst=-1 pin_busy=-1
panel memory_width=240 memory_height=320 panel_width=240 panel_height=320
panel offset_x=0 offset_y=0 offset_rotation=0
panel dummy_read_pixel=8 dummy_read_bits=1
panel readable=true invert=true rgb_order=false dlen_16bit=false bus_shared=false

light pin_bl=27 invert=false freq=44100 pwm_channel=7

touch x_min=0 x_max=239 y_min=0 y_max=319
touch pin_int=-1 bus_shared=false offset_rotation=0
touch pin_sda=33 pin_scl=32 i2c_port=1 freq=400000 i2c_addr=0x5D
`

// RP2040 with a 240x320 ILI9341 on SPI0, 4-wire, no touch.
const descRP2040ILI9341 = `{
  "name": "rp2040_ili9341",
  "soc": "rp2040",
  "panel_driver": "ili9341",
  "bus": {
    "spi_host": 0, "spi_mode": 0,
    "freq_write": 62500000, "freq_read": 20000000,
    "pin_sclk": 18, "pin_mosi": 19, "pin_miso": 16, "pin_dc": 20
  },
  "panel": {
    "pin_cs": 17, "pin_rst": 21,
    "memory_width": 240, "memory_height": 320,
    "panel_width": 240, "panel_height": 320,
    "readable": true, "bus_shared": false
  },
  "light": { "pin_bl": 22, "freq": 1200, "pwm_channel": 3 }
}`

var embedded = map[string]string{
	"esp32_st7789_gt911": descESP32ST7789GT911,
	"rp2040_ili9341":     descRP2040ILI9341,
}

// EmbeddedLookup allows overriding how named descriptions are resolved.
var EmbeddedLookup = func(name string) (string, bool) {
	s, ok := embedded[name]
	return s, ok
}

// Parse decodes either format, picking JSON when the text opens with '{'.
func Parse(src string) (types.BoardDescription, error) {
	if strings.HasPrefix(strings.TrimSpace(src), "{") {
		return ParseJSON([]byte(src))
	}
	return ParseLines(strings.NewReader(src))
}

// Lookup resolves and decodes an embedded description by name.
func Lookup(name string) (types.BoardDescription, error) {
	src, ok := EmbeddedLookup(name)
	if !ok {
		return types.BoardDescription{}, errcode.New(errcode.Unsupported, "boardcfg.Lookup", "no embedded description: "+name)
	}
	return Parse(src)
}

// Names lists the embedded description names in sorted order.
func Names() []string {
	out := make([]string, 0, len(embedded))
	for n := range embedded {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
