package main

import (
	"context"
	"errors"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go-currency-converter/config"
	"go-currency-converter/exchange"
	"go-currency-converter/exchangerateapi"
	"go-currency-converter/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	nhttp "net/http"
)

func main() {
	logger := config.NewLogger(config.Log{}, os.Stderr)

	cfg, err := config.Load(logger)
	if err != nil {
		level.Error(logger).Log("msg", "loading config", "err", err)
		os.Exit(1)
	}
	logger = config.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ratesService := exchangerateapi.NewService(
		cfg.ExchangeRate.URL,
		cfg.ExchangeRate.APIKey,
		cfg.ExchangeRate.HTTPTimeout,
		log.With(logger, "component", "exchangerate_api"),
	)
	ratesService = exchangerateapi.NewLoggingService(log.With(logger, "component", "exchangerate_api"), ratesService)
	ratesService = exchangerateapi.NewInstrumentingService(reg, ratesService)

	convertService := exchange.NewService(ctx, ratesService)
	convertService = exchange.NewLoggingService(log.With(logger, "component", "exchange"), convertService)
	convertService = exchange.NewInstrumentingService(reg, convertService)

	handler := http.NewServer(
		convertService,
		log.With(logger, "component", "http"),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)

	server := &nhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "listening", "addr", cfg.HTTPAddr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, nhttp.ErrServerClosed) {
			level.Error(logger).Log("msg", "serving http", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		level.Info(logger).Log("msg", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			level.Error(logger).Log("msg", "shutting down http", "err", err)
		}
	}
}
