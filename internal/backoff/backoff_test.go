package backoff

import (
	"context"
	"testing"
	"time"
)

func TestDelayGrowth(t *testing.T) {
	p := Policy{Initial: 100 * time.Millisecond, Max: 1 * time.Second, Factor: 2}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1 * time.Second, // capped
		1 * time.Second,
	}
	for attempt, w := range want {
		if got := p.Delay(attempt); got != w {
			t.Errorf("Delay(%d) = %s, want %s", attempt, got, w)
		}
	}
}

func TestDelayJitterBounds(t *testing.T) {
	p := Policy{Initial: 1 * time.Second, Max: 30 * time.Second, Factor: 2, Jitter: 0.2}

	for i := 0; i < 100; i++ {
		d := p.Delay(0)
		if d < 800*time.Millisecond || d > 1*time.Second {
			t.Fatalf("jittered delay %s outside [800ms, 1s]", d)
		}
	}
}

func TestSleepHonorsContext(t *testing.T) {
	p := Policy{Initial: 10 * time.Second, Max: 10 * time.Second, Factor: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Sleep(ctx, 0); err != context.Canceled {
		t.Fatalf("Sleep = %v, want context.Canceled", err)
	}
}
