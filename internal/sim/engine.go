package sim

import (
	"context"
	"sync"
	"time"
)

type stepper interface {
	advance(ctx context.Context, delta time.Duration) error
}

type tickerFactory func(time.Duration) (<-chan time.Time, func())

type timeSource func() time.Time

// tickEngine drives a stepper at a fixed rate until its context ends or a
// step fails.
type tickEngine struct {
	target    stepper
	tick      time.Duration
	wg        sync.WaitGroup
	newTicker tickerFactory
	now       timeSource

	mu  sync.Mutex
	err error
}

func defaultTickerFactory() tickerFactory {
	return func(d time.Duration) (<-chan time.Time, func()) {
		ticker := time.NewTicker(d)
		return ticker.C, ticker.Stop
	}
}

func newTickEngine(target stepper, tick time.Duration) *tickEngine {
	if tick <= 0 {
		tick = time.Second / 60
	}
	return &tickEngine{
		target:    target,
		tick:      tick,
		newTicker: defaultTickerFactory(),
		now:       time.Now,
	}
}

func (e *tickEngine) Start(ctx context.Context) {
	if e == nil || e.target == nil {
		return
	}
	e.wg.Add(1)
	go e.run(ctx)
}

func (e *tickEngine) run(ctx context.Context) {
	defer e.wg.Done()
	if e.newTicker == nil {
		e.newTicker = defaultTickerFactory()
	}
	if e.now == nil {
		e.now = time.Now
	}

	tickerC, stop := e.newTicker(e.tick)
	defer stop()

	last := e.now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tickerC:
			delta := now.Sub(last)
			if delta <= 0 {
				delta = e.tick
			} else if delta > 10*e.tick {
				delta = e.tick
			}
			last = now
			if err := e.target.advance(ctx, delta); err != nil {
				if ctx.Err() == nil {
					e.mu.Lock()
					e.err = err
					e.mu.Unlock()
				}
				return
			}
		}
	}
}

// Wait blocks until the engine stops and returns the step error that stopped
// it, if any. Context cancellation is not an error.
func (e *tickEngine) Wait() error {
	if e == nil {
		return nil
	}
	e.wg.Wait()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
