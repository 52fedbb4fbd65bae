package mathx

// MapInt maps x in [inMin,inMax] to [outMin,outMax] using 64-bit intermediates
// and truncating division. The input is clamped to its range first.
// A zero-width input range yields outMin.
func MapInt(x, inMin, inMax, outMin, outMax int) int {
	if inMax == inMin {
		return outMin
	}
	x = Clamp(x, inMin, inMax)
	num := int64(x-inMin) * int64(outMax-outMin)
	den := int64(inMax - inMin)
	return outMin + int(num/den)
}
