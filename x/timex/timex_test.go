package timex

import (
	"testing"
	"time"
)

func TestPeriodFromHz(t *testing.T) {
	cases := map[uint32]time.Duration{0: 0, 1: time.Second, 50: 20 * time.Millisecond, 3: 333333333}
	for hz, want := range cases {
		if got := PeriodFromHz(hz); got != want {
			t.Errorf("PeriodFromHz(%d) = %v, want %v", hz, got, want)
		}
	}
}
