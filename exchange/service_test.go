package exchange

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-currency-converter/domain"
	"go-currency-converter/exchangerateapi"
	"sync/atomic"
	"testing"
	"time"
)

type result struct {
	rates domain.Rates
	err   error
}

// mock hands out one queued result per ExchangeRates call
type mock struct {
	calls   int32
	base    atomic.Value
	results chan result
}

func newMock() *mock {
	return &mock{results: make(chan result, 4)}
}

func (m *mock) ExchangeRates(ctx context.Context, base domain.Currency) (domain.Rates, error) {
	atomic.AddInt32(&m.calls, 1)
	m.base.Store(base)
	select {
	case r := <-m.results:
		return r.rates, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestService(t *testing.T, m *mock) Service {
	ctx, cancel := context.WithCancel(context.Background()) // must cancel to stop go-routines started by this test
	t.Cleanup(cancel)
	return NewService(ctx, m)
}

func waitFor(t *testing.T, s Service, phase Phase) State {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.State().Phase == phase
	}, time.Second, time.Millisecond)
	return s.State()
}

func TestService_InitialState(t *testing.T) {
	s := newTestService(t, newMock())

	state := s.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Empty(t, state.Rates)
	assert.Equal(t, "0.00", s.Convert("100", "USD", "EUR"))
}

func TestService_OpenLoadsRates(t *testing.T) {
	m := newMock()
	s := newTestService(t, m)

	assert.True(t, s.Open())
	state := s.State()
	assert.Equal(t, PhaseLoading, state.Phase)
	assert.True(t, state.Loading)

	// single outstanding fetch
	assert.False(t, s.Open())

	m.results <- result{rates: domain.Rates{"USD": 1.0, "EUR": 0.9, "NGN": 1500}}
	state = waitFor(t, s, PhaseRatesAvailable)

	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Equal(t, domain.Rates{"USD": 1.0, "EUR": 0.9, "NGN": 1500}, state.Rates)
	assert.False(t, state.UpdatedAt.IsZero())
	assert.Equal(t, int32(1), atomic.LoadInt32(&m.calls))
	assert.Equal(t, domain.Base, m.base.Load())

	assert.Equal(t, "90.00", s.Convert("100", "USD", "EUR"))
	assert.Equal(t, "0.00", s.Convert("abc", "USD", "EUR"))
	assert.Equal(t, "0.00", s.Convert("50", "XYZ", "EUR"))
}

func TestService_OpenFailures(t *testing.T) {
	failures := []error{
		&exchangerateapi.FetchError{Kind: exchangerateapi.Network, Err: errors.New("connection reset")},
		&exchangerateapi.FetchError{Kind: exchangerateapi.NoData},
		&exchangerateapi.FetchError{Kind: exchangerateapi.Decode, Err: errors.New("unexpected end of JSON input")},
	}

	seen := map[string]bool{}
	for _, failure := range failures {
		t.Run(exchangerateapi.KindOf(failure).String(), func(t *testing.T) {
			m := newMock()
			s := newTestService(t, m)

			require.True(t, s.Open())
			m.results <- result{err: failure}
			state := waitFor(t, s, PhaseFetchFailed)

			assert.False(t, state.Loading)
			assert.NotEmpty(t, state.Error)
			assert.Equal(t, failure.Error(), state.Error)
			assert.Empty(t, state.Rates)
			assert.Equal(t, "0.00", s.Convert("100", "USD", "USD"))
			seen[state.Error] = true
		})
	}
	assert.Len(t, seen, len(failures), "error messages must be distinct")
}

func TestService_ReopenAfterFailure(t *testing.T) {
	m := newMock()
	s := newTestService(t, m)

	require.True(t, s.Open())
	m.results <- result{rates: domain.Rates{"USD": 1.0, "EUR": 0.9}}
	waitFor(t, s, PhaseRatesAvailable)

	require.True(t, s.Open())
	state := s.State()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Error)

	m.results <- result{err: &exchangerateapi.FetchError{Kind: exchangerateapi.NoData}}
	state = waitFor(t, s, PhaseFetchFailed)
	assert.Equal(t, "no data received", state.Error)
	// a failed fetch leaves the previous table in place
	assert.Equal(t, "90.00", s.Convert("100", "USD", "EUR"))

	require.True(t, s.Open())
	assert.Empty(t, s.State().Error, "error clears when a fetch starts")
	m.results <- result{rates: domain.Rates{"USD": 1.0, "GBP": 0.8}}
	state = waitFor(t, s, PhaseRatesAvailable)

	// replaced, not merged
	assert.Equal(t, domain.Rates{"USD": 1.0, "GBP": 0.8}, state.Rates)
	assert.Equal(t, "0.00", s.Convert("100", "USD", "EUR"))
	assert.Empty(t, state.Error)
	assert.Equal(t, int32(3), atomic.LoadInt32(&m.calls))
}

func TestService_Subscribe(t *testing.T) {
	m := newMock()
	s := newTestService(t, m)

	states, cancel := s.Subscribe()
	defer cancel()

	assert.Equal(t, PhaseIdle, (<-states).Phase)

	require.True(t, s.Open())
	loading := <-states
	assert.Equal(t, PhaseLoading, loading.Phase)
	assert.True(t, loading.Loading)

	m.results <- result{rates: domain.Rates{"USD": 1.0}}
	done := <-states
	assert.Equal(t, PhaseRatesAvailable, done.Phase)
	assert.False(t, done.Loading)
	assert.Equal(t, domain.Rates{"USD": 1.0}, done.Rates, "rates are in place by the time loading clears")

	cancel()
	_, ok := <-states
	assert.False(t, ok)
}

func TestService_Stop(t *testing.T) {
	m := newMock()
	ctx, cancel := context.WithCancel(context.Background())
	s := NewService(ctx, m)

	states, unsubscribe := s.Subscribe()
	defer unsubscribe()
	<-states

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-states:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.False(t, s.Open())
	assert.Equal(t, PhaseIdle, s.State().Phase)
}
