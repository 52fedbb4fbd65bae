// Command boardcheck validates display board descriptions against the
// SoC presets and exercises the wiring sequence on host fakes.
package main

import "displaycode-go/cmd/boardcheck/cmd"

func main() {
	cmd.Execute()
}
