package exchange

import (
	"context"
	"go-currency-converter/domain"
	"sync"
	"time"
)

// Phase of the rate loading flow: Idle -> Loading -> {RatesAvailable, FetchFailed}
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseLoading        Phase = "loading"
	PhaseRatesAvailable Phase = "rates_available"
	PhaseFetchFailed    Phase = "fetch_failed"
)

// State is what the presentation layer renders.
// Rates is shared between snapshots and must be treated as read-only.
type State struct {
	Phase   Phase        `json:"phase"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
	Rates   domain.Rates `json:"rates"`
	// UpdatedAt time of the last successful fetch
	UpdatedAt time.Time `json:"updated_at"`
}

// store owns the converter State. Every mutation runs on a single goroutine (run),
// readers take snapshots under lock or subscribe to a stream of them.
type store struct {
	// ops operations executed in order by run
	ops chan func()

	// done closes when run stops
	done <-chan struct{}

	// lock guards state; only run writes it
	lock  sync.RWMutex
	state State

	// subscribers is owned by run
	subscribers map[chan State]struct{}
}

// newStore starts the state-owning goroutine; it stops when ctx is done.
func newStore(ctx context.Context) *store {
	s := &store{
		ops:         make(chan func()),
		done:        ctx.Done(),
		state:       State{Phase: PhaseIdle, Rates: domain.Rates{}},
		subscribers: map[chan State]struct{}{},
	}
	go s.run()
	return s
}

func (s *store) run() {
	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.done:
			for ch := range s.subscribers {
				close(ch)
			}
			s.subscribers = nil
			return
		}
	}
}

// do runs op on the state goroutine and waits for it.
// It reports false, without running op, once the store has stopped.
func (s *store) do(op func()) bool {
	finished := make(chan struct{})
	select {
	case s.ops <- func() { op(); close(finished) }:
	case <-s.done:
		return false
	}
	// run received op and finishes it before looking at done again
	<-finished
	return true
}

// update applies fn to the state and publishes the result to subscribers.
func (s *store) update(fn func(*State)) bool {
	return s.do(func() {
		s.lock.Lock()
		fn(&s.state)
		snapshot := s.state
		s.lock.Unlock()

		for ch := range s.subscribers {
			publish(ch, snapshot)
		}
	})
}

// snapshot returns a copy of the current state
func (s *store) snapshot() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

// subscribe registers a channel that receives the current state and then every change.
// Slow readers only see the latest state. The channel closes on cancel or when the store stops.
func (s *store) subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	ok := s.do(func() {
		s.subscribers[ch] = struct{}{}
		publish(ch, s.snapshot())
	})
	if !ok {
		close(ch)
		return ch, func() {}
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.do(func() {
				if _, ok := s.subscribers[ch]; ok {
					delete(s.subscribers, ch)
					close(ch)
				}
			})
		})
	}
	return ch, cancel
}

// publish replaces any undelivered state in ch with st. Only run sends on ch, so it never blocks.
func publish(ch chan State, st State) {
	select {
	case <-ch:
	default:
	}
	ch <- st
}
