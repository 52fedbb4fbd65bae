package ramp

import (
	"testing"
	"time"
)

func TestLinearSteps(t *testing.T) {
	var got []uint16
	var waited time.Duration
	ok := Linear(0, 255, 100*time.Millisecond, 5,
		func(d time.Duration) bool {
			waited += d
			return true
		},
		func(v uint16) { got = append(got, v) })
	if !ok {
		t.Fatal("ramp cancelled")
	}
	want := []uint16{51, 102, 153, 204, 255}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if waited != 100*time.Millisecond {
		t.Fatalf("waited %v", waited)
	}
}

func TestLinearDown(t *testing.T) {
	var last uint16
	Linear(200, 0, time.Second, 3, func(time.Duration) bool { return true }, func(v uint16) { last = v })
	if last != 0 {
		t.Fatalf("last = %d", last)
	}
}

func TestLinearSnapAndCancel(t *testing.T) {
	var got []uint16
	set := func(v uint16) { got = append(got, v) }
	Linear(10, 90, 0, 8, nil, set)
	if len(got) != 1 || got[0] != 90 {
		t.Fatalf("snap: %v", got)
	}

	got = nil
	n := 0
	stopAfter2 := func(time.Duration) bool {
		n++
		return n < 3
	}
	ok := Linear(0, 100, time.Second, 10, stopAfter2, set)
	if ok || len(got) != 2 {
		t.Fatalf("cancel: ok=%v got=%v", ok, got)
	}
}
