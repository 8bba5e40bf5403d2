package perf

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCheckCountsCycles(t *testing.T) {
	calls := 0
	r, err := Check("sleep", 4, func() error {
		calls++
		time.Sleep(time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 4 || len(r.Cycles) != 4 {
		t.Fatalf("calls = %d, cycles = %d, want 4", calls, len(r.Cycles))
	}
	if r.Min < time.Millisecond || r.Min > r.Average || r.Average > r.Max {
		t.Fatalf("inconsistent timings: min %v avg %v max %v", r.Min, r.Average, r.Max)
	}
	var sum time.Duration
	for _, d := range r.Cycles {
		sum += d
	}
	if sum != r.Total {
		t.Fatalf("total %v, sum of cycles %v", r.Total, sum)
	}
}

func TestCheckRejectsNoCycles(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := Check("noop", n, func() error { return nil }); err == nil {
			t.Errorf("Check with %d cycles should fail", n)
		}
	}
}

func TestCheckStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := Check("failing", 10, func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if calls != 3 {
		t.Fatalf("fn called %d times after error, want 3", calls)
	}
}

func TestSpeedup(t *testing.T) {
	base := Report{Average: 40 * time.Millisecond}
	fast := Report{Average: 10 * time.Millisecond}
	if got := fast.Speedup(base); got != 4 {
		t.Fatalf("Speedup = %f, want 4", got)
	}
	if got := (Report{}).Speedup(base); got != 0 {
		t.Fatalf("Speedup of empty report = %f, want 0", got)
	}
}

func TestWriteTo(t *testing.T) {
	r := Report{
		Name:    "generate",
		Cycles:  make([]time.Duration, 10),
		Average: 1500 * time.Microsecond,
		Min:     time.Millisecond,
		Max:     2 * time.Millisecond,
	}
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"1.5000 ms avg", "10 cycles", "generate"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
