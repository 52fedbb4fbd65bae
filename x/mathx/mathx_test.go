package mathx

import "testing"

func TestClamp(t *testing.T) {
	if Clamp(-5, 0, 10) != 0 {
		t.Fatal("clamp low failed")
	}
	if Clamp(15, 0, 10) != 10 {
		t.Fatal("clamp high failed")
	}
	if Clamp(7, 10, 0) != 7 {
		t.Fatal("clamp with swapped bounds failed")
	}
}

func TestMod(t *testing.T) {
	for in, want := range map[int]int{-1: 7, -8: 0, -9: 7, 0: 0, 9: 1, 15: 7} {
		if got := Mod(in, 8); got != want {
			t.Fatalf("Mod(%d,8)=%d want %d", in, got, want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	if CeilDiv[uint32](80, 40) != 2 || CeilDiv[uint32](80, 30) != 3 || CeilDiv[uint32](1, 0) != 0 {
		t.Fatal("CeilDiv mismatch")
	}
}

func TestMapInt(t *testing.T) {
	cases := []struct{ x, inMin, inMax, outMin, outMax, want int }{
		{0, 0, 239, 0, 239, 0},
		{239, 0, 239, 0, 239, 239},
		{2048, 0, 4095, 0, 239, 119},
		{-50, 0, 4095, 0, 239, 0},
		{9000, 0, 4095, 0, 239, 239},
		{5, 5, 5, 0, 100, 0},
	}
	for _, c := range cases {
		if got := MapInt(c.x, c.inMin, c.inMax, c.outMin, c.outMax); got != c.want {
			t.Fatalf("MapInt(%d, %d..%d -> %d..%d)=%d want %d", c.x, c.inMin, c.inMax, c.outMin, c.outMax, got, c.want)
		}
	}
}
