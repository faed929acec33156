package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
	"go-currency-converter/domain"
	"strconv"
)

// instrumentingService decorates an exchange.Service with prometheus metrics
type instrumentingService struct {
	opens       *prometheus.CounterVec
	conversions *prometheus.CounterVec
	next        Service
}

// NewInstrumentingService registers its collectors with reg and returns the decorated Service
func NewInstrumentingService(reg prometheus.Registerer, s Service) Service {
	opens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "currency_converter",
		Subsystem: "exchange",
		Name:      "opens_total",
		Help:      "Open calls, by whether they started a fetch.",
	}, []string{"started"})
	conversions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "currency_converter",
		Subsystem: "exchange",
		Name:      "conversions_total",
		Help:      "Conversions, by whether a result was available.",
	}, []string{"result"})
	reg.MustRegister(opens, conversions)

	return &instrumentingService{
		opens:       opens,
		conversions: conversions,
		next:        s,
	}
}

func (s *instrumentingService) Open() bool {
	started := s.next.Open()
	s.opens.WithLabelValues(strconv.FormatBool(started)).Inc()
	return started
}

func (s *instrumentingService) State() State {
	return s.next.State()
}

func (s *instrumentingService) Subscribe() (<-chan State, func()) {
	return s.next.Subscribe()
}

func (s *instrumentingService) Convert(amountText string, from domain.Currency, to domain.Currency) string {
	converted := s.next.Convert(amountText, from, to)
	// a genuine zero result is counted as unavailable too
	if converted == Unavailable {
		s.conversions.WithLabelValues("unavailable").Inc()
	} else {
		s.conversions.WithLabelValues("converted").Inc()
	}
	return converted
}
