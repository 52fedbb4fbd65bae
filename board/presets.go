package board

import "golang.org/x/exp/slices"

// ESP-IDF host identifiers.
const (
	SPI2Host = 1 // HSPI
	SPI3Host = 2 // VSPI
)

// esp32 (classic). GPIO6..11 carry the SPI flash; GPIO34..39 are input-only.
var esp32 = Caps{
	Name:    "esp32",
	GPIOMin: 0, GPIOMax: 39,
	Reserved:       []int{6, 7, 8, 9, 10, 11, 20, 24, 28, 29, 30, 31},
	InputOnly:      []int{34, 35, 36, 37, 38, 39},
	SPIHosts:       []int{SPI2Host, SPI3Host},
	I2CPorts:       []int{0, 1},
	DMAChannels:    []int{1, 2},
	PWMChannels:    16,
	SPIBaseClockHz: 80_000_000,
	SPIMinDivider:  1,
	SPIMaxHz:       80_000_000,
	I2CMaxHz:       1_000_000,
	PWMMaxHz:       40_000_000,
}

// esp32s3. GPIO26..32 carry the SPI flash/PSRAM; DMA is allocated automatically (3).
var esp32s3 = Caps{
	Name:    "esp32s3",
	GPIOMin: 0, GPIOMax: 48,
	Reserved:       []int{22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32},
	SPIHosts:       []int{SPI2Host, SPI3Host},
	I2CPorts:       []int{0, 1},
	DMAChannels:    []int{3},
	PWMChannels:    8,
	SPIBaseClockHz: 80_000_000,
	SPIMinDivider:  1,
	SPIMaxHz:       80_000_000,
	I2CMaxHz:       1_000_000,
	PWMMaxHz:       40_000_000,
}

// rp2040. SPI runs from clk_peri with a minimum prescale of 2.
var rp2040 = Caps{
	Name:    "rp2040",
	GPIOMin: 0, GPIOMax: 29,
	SPIHosts:       []int{0, 1},
	I2CPorts:       []int{0, 1},
	DMAChannels:    []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	PWMChannels:    16,
	SPIBaseClockHz: 125_000_000,
	SPIMinDivider:  2,
	SPIMaxHz:       62_500_000,
	I2CMaxHz:       1_000_000,
	PWMMaxHz:       62_500_000,
}

var presets = map[string]*Caps{
	esp32.Name:   &esp32,
	esp32s3.Name: &esp32s3,
	rp2040.Name:  &rp2040,
}

// ESP32, ESP32S3 and RP2040 return a private copy of the preset; changing
// it does not affect later lookups.
func ESP32() *Caps   { return esp32.Clone() }
func ESP32S3() *Caps { return esp32s3.Clone() }
func RP2040() *Caps  { return rp2040.Clone() }

// Lookup returns a copy of the preset capability descriptor for a SoC name.
func Lookup(name string) (*Caps, bool) {
	c, ok := presets[name]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Names lists the preset SoC names in sorted order.
func Names() []string {
	out := make([]string, 0, len(presets))
	for n := range presets {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
