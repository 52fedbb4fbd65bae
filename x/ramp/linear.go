// Package ramp steps a level linearly towards a target.
package ramp

import (
	"time"

	"displaycode-go/x/mathx"
)

// Step applies a new level.
type Step func(level uint16)

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// Linear moves from cur to the target in steps equal increments spread over
// d, waiting on tick before each one. steps==0 or d<=0 snaps to the target.
// It reports false when tick cancelled the ramp part way.
func Linear(cur, to uint16, d time.Duration, steps uint16, tick Tick, set Step) bool {
	if steps == 0 || d <= 0 {
		set(to)
		return true
	}
	stepDur := mathx.Max(d/time.Duration(steps), time.Millisecond)
	delta := int32(to) - int32(cur)
	for i := int32(1); i <= int32(steps); i++ {
		if !tick(stepDur) {
			return false
		}
		set(uint16(int32(cur) + delta*i/int32(steps)))
	}
	return true
}
