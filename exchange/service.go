package exchange

import (
	"context"
	"go-currency-converter/domain"
	"go-currency-converter/exchangerateapi"
	"time"
)

// Service is the converter screen's model: it loads a rate table once per Open
// and converts amounts against whatever table it currently holds.
type Service interface {
	// Open starts a rate fetch unless one is already outstanding, and reports whether it did.
	Open() bool
	// State returns the current state snapshot
	State() State
	// Subscribe streams state snapshots, starting with the current one. Call cancel when done.
	Subscribe() (states <-chan State, cancel func())
	// Convert converts amountText with the current rate table
	Convert(amountText string, from domain.Currency, to domain.Currency) string
}

// service converter screen model
type service struct {
	// ctx scopes fetches and the state goroutine
	ctx context.Context

	// ratesService fetches rate tables
	ratesService exchangerateapi.Service

	store *store
}

// NewService constructs a valid Service. It stops when ctx is done.
func NewService(ctx context.Context, s exchangerateapi.Service) Service {
	return &service{
		ctx:          ctx,
		ratesService: s,
		store:        newStore(ctx),
	}
}

func (s *service) Open() bool {
	started := false
	ok := s.store.update(func(st *State) {
		if st.Loading {
			return
		}
		st.Phase = PhaseLoading
		st.Loading = true
		st.Error = ""
		started = true
	})
	if !ok || !started {
		return false
	}

	go s.fetch()
	return true
}

// fetch loads rates and records the outcome. Loading clears in the same update
// that records the outcome, whichever way the fetch went.
func (s *service) fetch() {
	rates, err := s.ratesService.ExchangeRates(s.ctx, domain.Base)

	s.store.update(func(st *State) {
		st.Loading = false
		if err != nil {
			st.Phase = PhaseFetchFailed
			st.Error = err.Error()
			return
		}
		st.Phase = PhaseRatesAvailable
		st.Error = ""
		st.Rates = rates
		st.UpdatedAt = time.Now()
	})
}

func (s *service) State() State {
	return s.store.snapshot()
}

func (s *service) Subscribe() (<-chan State, func()) {
	return s.store.subscribe()
}

func (s *service) Convert(amountText string, from domain.Currency, to domain.Currency) string {
	return Convert(amountText, from, to, s.store.snapshot().Rates)
}
