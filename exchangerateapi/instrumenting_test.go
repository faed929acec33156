package exchangerateapi

import (
	"context"
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go-currency-converter/domain"
	"testing"
)

type stub struct {
	rates domain.Rates
	err   error
}

func (s *stub) ExchangeRates(_ context.Context, _ domain.Currency) (domain.Rates, error) {
	return s.rates, s.err
}

func TestInstrumentingService(t *testing.T) {
	reg := prometheus.NewRegistry()
	next := &stub{rates: domain.Rates{"USD": 1}}
	s := NewInstrumentingService(reg, next).(*instrumentingService)

	_, _ = s.ExchangeRates(context.Background(), "USD")
	_, _ = s.ExchangeRates(context.Background(), "USD")

	next.rates, next.err = nil, &FetchError{Kind: Decode, Err: errors.New("bad")}
	_, err := s.ExchangeRates(context.Background(), "USD")
	assert.Error(t, err)

	next.err = &FetchError{Kind: NoData}
	_, _ = s.ExchangeRates(context.Background(), "USD")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.requests.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("decode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("no_data")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.requests.WithLabelValues("network")))
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&FetchError{Kind: Network, Err: cause})

	assert.Equal(t, "network error: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, Network, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(cause))
	assert.Equal(t, "unknown", Kind(0).String())
}
