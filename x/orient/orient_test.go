package orient

import (
	"testing"

	"tinygo.org/x/drivers"
)

func TestComposeIsTotalWithPeriodEight(t *testing.T) {
	for o := 0; o < Total; o++ {
		for r := 0; r < Quarters; r++ {
			got := Compose(r, o)
			if got >= Total {
				t.Fatalf("Compose(%d,%d)=%d outside 0..7", r, o, got)
			}
			if again := Compose(r, o+Total); again != got {
				t.Fatalf("Compose(%d,%d)=%d but Compose(%d,%d)=%d", r, o, got, r, o+Total, again)
			}
		}
	}
}

func TestComposeMirrorThreshold(t *testing.T) {
	cases := []struct {
		req, off int
		quarter  int
		mirrored bool
	}{
		{0, 0, 0, false},
		{1, 2, 3, false},
		{3, 1, 0, true},
		{0, 4, 0, true},
		{3, 7, 2, false},
		{-1, 0, 3, true},
	}
	for _, c := range cases {
		q, m := Split(Compose(c.req, c.off))
		if q != c.quarter || m != c.mirrored {
			t.Fatalf("Compose(%d,%d) -> (%d,%v) want (%d,%v)", c.req, c.off, q, m, c.quarter, c.mirrored)
		}
	}
}

func TestMapCorners(t *testing.T) {
	const w, h = 240, 320
	cases := []struct {
		r          drivers.Rotation
		x, y       int
		wantX, wantY int
	}{
		{drivers.Rotation0, 0, 0, 0, 0},
		{drivers.Rotation0Mirror, 0, 0, 0, 319},
		{drivers.Rotation180, 0, 0, 239, 319},
		// odd quarters read from a 320x240 source frame
		{drivers.Rotation90, 0, 0, 239, 0},
		{drivers.Rotation270, 0, 0, 0, 319},
		{drivers.Rotation90, 319, 239, 0, 319},
	}
	for _, c := range cases {
		x, y := Map(c.x, c.y, w, h, c.r)
		if x != c.wantX || y != c.wantY {
			t.Fatalf("Map(%d,%d,r=%d)=(%d,%d) want (%d,%d)", c.x, c.y, c.r, x, y, c.wantX, c.wantY)
		}
	}
}

func TestMapStaysInFrame(t *testing.T) {
	const w, h = 7, 5
	for r := drivers.Rotation(0); r < Total; r++ {
		sw, sh := w, h
		if Swapped(r) {
			sw, sh = h, w
		}
		seen := map[[2]int]bool{}
		for x := 0; x < sw; x++ {
			for y := 0; y < sh; y++ {
				px, py := Map(x, y, w, h, r)
				if px < 0 || px >= w || py < 0 || py >= h {
					t.Fatalf("r=%d (%d,%d) -> (%d,%d) out of %dx%d", r, x, y, px, py, w, h)
				}
				seen[[2]int{px, py}] = true
			}
		}
		if len(seen) != w*h {
			t.Fatalf("r=%d is not a bijection: %d distinct points", r, len(seen))
		}
	}
}

func TestUnmapInvertsMap(t *testing.T) {
	const w, h = 7, 5
	for r := drivers.Rotation(0); r < Total; r++ {
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				sx, sy := Unmap(x, y, w, h, r)
				if mx, my := Map(sx, sy, w, h, r); mx != x || my != y {
					t.Fatalf("r=%d Unmap(%d,%d)=(%d,%d) maps back to (%d,%d)", r, x, y, sx, sy, mx, my)
				}
			}
		}
	}
}
