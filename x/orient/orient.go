// Package orient holds the rotation arithmetic shared by the panel scan
// direction and the touch overlay mapping.
//
// Orientations are numbered 0..7. Values 0..3 are clockwise quarter turns;
// 4..7 are the same turns applied to a vertically mirrored frame.
package orient

import (
	"displaycode-go/x/mathx"

	"tinygo.org/x/drivers"
)

const (
	// Quarters is the number of non-mirrored orientations.
	Quarters = 4
	// Total is the full orientation space, mirrored variants included.
	Total = 2 * Quarters
)

// Normalize folds any integer into 0..Total-1.
func Normalize(r int) drivers.Rotation {
	return drivers.Rotation(mathx.Mod(r, Total))
}

// Compose adds a fixed mounting offset to a requested rotation.
// effective = (requested + offset) mod Total.
func Compose(requested, offset int) drivers.Rotation {
	return Normalize(requested + offset)
}

// Split returns the quarter-turn count and whether the mirrored variant is selected.
func Split(r drivers.Rotation) (quarter int, mirrored bool) {
	e := int(r) % Total
	return e % Quarters, e >= Quarters
}

// Swapped reports whether r exchanges the x and y axes.
func Swapped(r drivers.Rotation) bool {
	q, _ := Split(r)
	return q&1 == 1
}

// Map takes a point in a source frame and returns it in the destination frame
// of size w×h after mirroring (if selected) and rotating clockwise by r.
// The source frame is w×h for even quarters and h×w for odd ones.
func Map(x, y, w, h int, r drivers.Rotation) (int, int) {
	q, mirrored := Split(r)
	sh := h
	if q&1 == 1 {
		sh = w
	}
	if mirrored {
		y = sh - 1 - y
	}
	switch q {
	case 1:
		return w - 1 - y, x
	case 2:
		return w - 1 - x, h - 1 - y
	case 3:
		return y, h - 1 - x
	}
	return x, y
}

// Unmap is the inverse of Map: it takes a point in the w×h destination frame
// and returns it in the rotated source frame (h×w for odd quarters).
func Unmap(x, y, w, h int, r drivers.Rotation) (int, int) {
	q, mirrored := Split(r)
	sh := h
	if q&1 == 1 {
		sh = w
	}
	var sx, sy int
	switch q {
	case 1:
		sx, sy = y, w-1-x
	case 2:
		sx, sy = w-1-x, h-1-y
	case 3:
		sx, sy = h-1-y, x
	default:
		sx, sy = x, y
	}
	if mirrored {
		sy = sh - 1 - sy
	}
	return sx, sy
}
