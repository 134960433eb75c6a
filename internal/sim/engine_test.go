package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubStepper struct {
	mu     sync.Mutex
	deltas []time.Duration
	notify chan struct{}
	failAt int
}

func newStubStepper() *stubStepper {
	return &stubStepper{notify: make(chan struct{}, 1)}
}

func (s *stubStepper) advance(ctx context.Context, delta time.Duration) error {
	s.mu.Lock()
	s.deltas = append(s.deltas, delta)
	count := len(s.deltas)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	if s.failAt > 0 && count >= s.failAt {
		return errors.New("step failed")
	}
	return nil
}

func (s *stubStepper) waitForCalls(target int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		s.mu.Lock()
		count := len(s.deltas)
		s.mu.Unlock()
		if count >= target {
			return true
		}
		select {
		case <-s.notify:
		case <-deadline:
			return false
		}
	}
}

func (s *stubStepper) snapshot() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.deltas...)
}

func TestTickEngineClampsDelta(t *testing.T) {
	stub := newStubStepper()
	tick := 10 * time.Millisecond
	engine := newTickEngine(stub, tick)

	base := time.Unix(0, 0)
	engine.now = func() time.Time { return base }

	times := []time.Time{
		base.Add(tick),      // normal interval
		base.Add(tick),      // zero delta -> clamp
		base.Add(20 * tick), // oversized delta -> clamp
		base.Add(23 * tick), // three ticks late -> kept
	}

	tickerChan := make(chan time.Time, len(times))
	for _, tm := range times {
		tickerChan <- tm
	}
	engine.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return tickerChan, func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine.Start(ctx)
	if !stub.waitForCalls(len(times), time.Second) {
		t.Fatalf("tick engine did not emit expected ticks")
	}
	cancel()
	if err := engine.Wait(); err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}

	deltas := stub.snapshot()
	if len(deltas) != len(times) {
		t.Fatalf("expected %d ticks, got %d", len(times), len(deltas))
	}
	expectedDelta := []time.Duration{tick, tick, tick, 3 * tick}
	for i, delta := range deltas {
		if delta != expectedDelta[i] {
			t.Fatalf("tick %d delta = %v, want %v", i, delta, expectedDelta[i])
		}
	}
}

func TestTickEngineStopsOnStepError(t *testing.T) {
	stub := newStubStepper()
	stub.failAt = 2
	engine := newTickEngine(stub, time.Millisecond)

	tickerChan := make(chan time.Time, 4)
	for i := 0; i < 4; i++ {
		tickerChan <- time.Unix(int64(i+1), 0)
	}
	engine.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return tickerChan, func() {}
	}

	engine.Start(context.Background())
	err := engine.Wait()
	if err == nil || err.Error() != "step failed" {
		t.Fatalf("expected step error, got %v", err)
	}
	if got := len(stub.snapshot()); got != 2 {
		t.Fatalf("expected engine to stop after 2 steps, got %d", got)
	}
}

func TestTickEngineDefaults(t *testing.T) {
	engine := newTickEngine(newStubStepper(), 0)

	if engine.tick != time.Second/60 {
		t.Fatalf("default tick duration = %v, want %v", engine.tick, time.Second/60)
	}
	if engine.newTicker == nil {
		t.Fatalf("expected ticker factory to be initialized")
	}
	if engine.now == nil {
		t.Fatalf("expected time source to be initialized")
	}
}
