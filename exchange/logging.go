package exchange

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-currency-converter/domain"
	"time"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Open() (started bool) {
	defer func() {
		level.Info(s.logger).Log(
			"method", "open",
			"started", started,
		)
	}()
	return s.next.Open()
}

func (s *loggingService) State() State {
	return s.next.State()
}

func (s *loggingService) Subscribe() (<-chan State, func()) {
	return s.next.Subscribe()
}

func (s *loggingService) Convert(amountText string, from domain.Currency, to domain.Currency) (converted string) {
	defer func(begin time.Time) {
		level.Debug(s.logger).Log(
			"method", "convert",
			"amount", amountText,
			"from", from,
			"to", to,
			"converted_amount", converted,
			"took", time.Since(begin),
		)
	}(time.Now())
	return s.next.Convert(amountText, from, to)
}
