package exchangerateapi

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"go-currency-converter/domain"
	"time"
)

// instrumentingService decorates an exchangerateapi.Service with prometheus metrics
type instrumentingService struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
	next     Service
}

// NewInstrumentingService registers its collectors with reg and returns the decorated Service
func NewInstrumentingService(reg prometheus.Registerer, s Service) Service {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "currency_converter",
		Subsystem: "exchangerate_api",
		Name:      "requests_total",
		Help:      "Rate table fetches by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "currency_converter",
		Subsystem: "exchangerate_api",
		Name:      "request_duration_seconds",
		Help:      "Time spent fetching a rate table.",
		Buckets:   prometheus.DefBuckets,
	})
	reg.MustRegister(requests, latency)

	return &instrumentingService{
		requests: requests,
		latency:  latency,
		next:     s,
	}
}

func (s *instrumentingService) ExchangeRates(ctx context.Context, base domain.Currency) (rates domain.Rates, err error) {
	defer func(begin time.Time) {
		s.requests.WithLabelValues(outcome(err)).Inc()
		s.latency.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.ExchangeRates(ctx, base)
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return KindOf(err).String()
}
