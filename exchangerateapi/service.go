package exchangerateapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-currency-converter/domain"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const ApiUrlBase = "https://v6.exchangerate-api.com/v6"

// MaxBodySize caps how much of a provider response is read. A full /latest
// payload is a few kilobytes.
const MaxBodySize = 1 << 20

// Service wraps the exchangerate-api.com REST API
type Service interface {
	ExchangeRates(ctx context.Context, base domain.Currency) (domain.Rates, error)
}

// service exchangerate-api.com client
type service struct {
	// url base API url, without trailing slash
	url string

	// apiKey credential placed in the request path
	apiKey string

	// client for HTTP requests
	client http.Client

	// maxBodySize overrides MaxBodySize when positive
	maxBodySize int64

	logger log.Logger
}

// NewService constructs a valid exchangerate-api Service.
// An empty baseURL selects ApiUrlBase.
func NewService(baseURL, apiKey string, timeout time.Duration, logger log.Logger) Service {
	if baseURL == "" {
		baseURL = ApiUrlBase
	}
	return &service{
		url:    strings.TrimSuffix(baseURL, "/"),
		apiKey: apiKey,
		client: http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// response the consumed part of a /latest payload
type response struct {
	Result          *string            `json:"result"`
	ErrorType       string             `json:"error-type"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// ExchangeRates loads the latest rate table quoted against base.
// Every failure is a *FetchError.
func (s *service) ExchangeRates(ctx context.Context, base domain.Currency) (domain.Rates, error) {
	endpoint := fmt.Sprintf("%v/%v/latest/%v", s.url, url.PathEscape(s.apiKey), base)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: Network, Err: errors.New("invalid url")}
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		// url.Error embeds the request URL, and with it the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, &FetchError{Kind: Network, Err: err}
	}
	defer httpResponse.Body.Close()

	limit := s.maxBodySize
	if limit <= 0 {
		limit = MaxBodySize
	}
	body, err := io.ReadAll(io.LimitReader(httpResponse.Body, limit+1))
	if err != nil {
		return nil, &FetchError{Kind: Network, Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(body)) > limit {
		return nil, &FetchError{Kind: Decode, Err: fmt.Errorf("response body exceeds %d bytes", limit)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &FetchError{Kind: NoData}
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Kind: Decode, Err: err}
	}
	if payload.Result == nil {
		return nil, &FetchError{Kind: Decode, Err: errors.New(`missing "result"`)}
	}
	if payload.ConversionRates == nil {
		if payload.ErrorType != "" {
			return nil, &FetchError{Kind: Decode, Err: fmt.Errorf(`missing "conversion_rates" (error-type %v)`, payload.ErrorType)}
		}
		return nil, &FetchError{Kind: Decode, Err: errors.New(`missing "conversion_rates"`)}
	}

	// The status is carried through unvalidated; the rates are what the caller asked for.
	if *payload.Result != "success" {
		level.Warn(s.logger).Log("msg", "unexpected result status", "result", *payload.Result, "base", base)
	}

	rates := make(domain.Rates, len(payload.ConversionRates))
	for k, v := range payload.ConversionRates {
		rates[domain.Currency(k)] = domain.Rate(v)
	}

	return rates, nil
}
