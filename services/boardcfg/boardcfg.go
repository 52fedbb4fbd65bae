// Package boardcfg loads board descriptions from JSON or from the line
// format and resolves the embedded descriptions shipped with the firmware.
//
// Line format, one section per line, shell quoting rules, # comments:
//
//	board name=esp32_st7789_gt911 soc=esp32 panel_driver=st7789 touch_driver=gt911
//	bus   spi_host=1 freq_write=40000000 pin_sclk=14 pin_dc=2
//	touch i2c_addr=0x5D x_max=239 y_max=319
//
// Keys are the JSON field names of the section. A section may span several
// lines; later keys override earlier ones.
package boardcfg

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"displaycode-go/errcode"
	"displaycode-go/types"

	"github.com/google/shlex"
)

const (
	opParseJSON  = "boardcfg.ParseJSON"
	opParseLines = "boardcfg.ParseLines"
)

// sections of the line format; "board" holds the top-level scalar fields.
var sections = map[string]bool{"board": true, "bus": true, "panel": true, "light": true, "touch": true}

// ParseJSON decodes a description over the defaults. Unknown keys are rejected.
func ParseJSON(b []byte) (types.BoardDescription, error) {
	d := types.NewBoardDescription()
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return types.BoardDescription{}, &errcode.E{C: errcode.InvalidParams, Op: opParseJSON, Msg: err.Error(), Err: err}
	}
	return d, nil
}

// ParseLines decodes the line format by folding it into the JSON shape.
func ParseLines(r io.Reader) (types.BoardDescription, error) {
	top := map[string]any{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		toks, err := shlex.Split(sc.Text())
		if err != nil {
			return types.BoardDescription{}, lineErr(line, err.Error())
		}
		if len(toks) == 0 {
			continue
		}
		sec := toks[0]
		if !sections[sec] {
			return types.BoardDescription{}, lineErr(line, "unknown section "+strconv.Quote(sec))
		}
		dst := top
		if sec != "board" {
			m, _ := top[sec].(map[string]any)
			if m == nil {
				m = map[string]any{}
				top[sec] = m
			}
			dst = m
		}
		for _, kv := range toks[1:] {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return types.BoardDescription{}, lineErr(line, "expected key=value, got "+strconv.Quote(kv))
			}
			dst[k] = scalar(v)
		}
	}
	if err := sc.Err(); err != nil {
		return types.BoardDescription{}, &errcode.E{C: errcode.Error, Op: opParseLines, Err: err}
	}
	b, err := json.Marshal(top)
	if err != nil {
		return types.BoardDescription{}, &errcode.E{C: errcode.InvalidParams, Op: opParseLines, Err: err}
	}
	return ParseJSON(b)
}

// scalar turns a token into a JSON scalar: integers (decimal or 0x hex),
// booleans, otherwise the string itself.
func scalar(v string) any {
	if n, err := strconv.ParseInt(v, 0, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}

func lineErr(line int, msg string) error {
	return errcode.New(errcode.InvalidParams, opParseLines, "line "+strconv.Itoa(line)+": "+msg)
}
