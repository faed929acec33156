package config

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"io"
	"os"
	"time"
)

// ExchangeRateAPI settings for the rate provider
type ExchangeRateAPI struct {
	APIKey      string        `envconfig:"API_KEY" required:"true"`
	URL         string        `envconfig:"API_URL" default:"https://v6.exchangerate-api.com/v6"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s"`
}

// Log settings for the process logger
type Log struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"logfmt"`
}

// Config everything the server reads from its environment
type Config struct {
	HTTPAddr     string          `envconfig:"HTTP_ADDR" default:":8080"`
	ExchangeRate ExchangeRateAPI `envconfig:"EXCHANGE_RATE"`
	Log          Log             `envconfig:"LOG"`
}

// Load reads the first .env file found among paths (default ".env") into the
// environment, without overriding variables already set, then parses Config.
// A missing .env file is not an error.
func Load(logger log.Logger, paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			level.Info(logger).Log("msg", "environment loaded from file", "path", path)
			break
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	level.Info(logger).Log(
		"msg", "config loaded",
		"http_addr", cfg.HTTPAddr,
		"exchange_api_url", cfg.ExchangeRate.URL,
		"exchange_api_key", Mask(cfg.ExchangeRate.APIKey),
		"exchange_http_timeout", cfg.ExchangeRate.HTTPTimeout,
		"log_level", cfg.Log.Level,
	)
	return &cfg, nil
}

// Mask hides a secret for logging. Only secrets of at least 12 characters keep their edges.
func Mask(secret string) string {
	if len(secret) < 12 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-4:]
}

// NewLogger builds the process logger from cfg, writing to w.
// Unknown levels fall back to info, unknown formats to logfmt.
func NewLogger(cfg Log, w io.Writer) log.Logger {
	if w == nil {
		w = os.Stderr
	}
	w = log.NewSyncWriter(w)

	var logger log.Logger
	switch cfg.Format {
	case "json":
		logger = log.NewJSONLogger(w)
	default:
		logger = log.NewLogfmtLogger(w)
	}
	logger = level.NewFilter(logger, allow(cfg.Level))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func allow(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
