package http

import (
	"encoding/json"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-currency-converter/domain"
	"go-currency-converter/exchange"
	"net/http"
	"time"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Service exchange.Service
	Logger  log.Logger
	// Metrics serves /metrics when set
	Metrics http.Handler
	router  chi.Router
}

func NewServer(s exchange.Service, logger log.Logger, metrics http.Handler) *Server {
	server := &Server{
		Service: s,
		Logger:  logger,
		Metrics: metrics,
		router:  chi.NewRouter(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/currencies", s.currencies())
		r.Post("/open", s.open())
		r.Get("/state", s.state())
		r.Get("/state/stream", s.stream())
		r.Get("/convert", s.convert())
	})
	if s.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.Metrics)
	}
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// logRequests logs every request once it has been served
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)
		defer func(begin time.Time) {
			level.Debug(s.Logger).Log(
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"took", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// currencies produces HTTP handler listing the supported currencies
func (s *Server) currencies() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		s.writeJSON(rw, http.StatusOK, domain.Currencies())
	}
}

// open produces HTTP handler for the client's "converter is visible" signal
func (s *Server) open() http.HandlerFunc {

	// response for marshalling JSON responses to return to clients
	type response struct {
		Started bool           `json:"started"`
		State   exchange.State `json:"state"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		started := s.Service.Open()
		s.writeJSON(rw, http.StatusAccepted, response{
			Started: started,
			State:   s.Service.State(),
		})
	}
}

// state produces HTTP handler returning the current state snapshot
func (s *Server) state() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		s.writeJSON(rw, http.StatusOK, s.Service.State())
	}
}

// stream produces HTTP handler pushing every state change as a server-sent event
func (s *Server) stream() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		flusher, ok := rw.(http.Flusher)
		if !ok {
			s.writeError(rw, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		states, cancel := s.Service.Subscribe()
		defer cancel()

		rw.Header().Set("Content-Type", "text/event-stream")
		rw.Header().Set("Cache-Control", "no-cache")
		rw.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case state, ok := <-states:
				if !ok {
					return
				}
				bytes, err := json.Marshal(state)
				if err != nil {
					level.Error(s.Logger).Log("msg", "encoding state", "err", err)
					return
				}
				if _, err := fmt.Fprintf(rw, "event: state\ndata: %s\n\n", bytes); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// response for marshalling JSON responses to return to clients
	type response struct {
		Amount     string          `json:"amount"`
		From       domain.Currency `json:"from"`
		To         domain.Currency `json:"to"`
		FromSymbol string          `json:"fromSymbol,omitempty"`
		ToSymbol   string          `json:"toSymbol,omitempty"`
		Converted  string          `json:"converted"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		amount := query.Get("amount")
		from := domain.Currency(query.Get("from"))
		to := domain.Currency(query.Get("to"))

		response := response{
			Amount:    amount,
			From:      from,
			To:        to,
			Converted: s.Service.Convert(amount, from, to),
		}
		if info, ok := domain.Lookup(from); ok {
			response.FromSymbol = info.Symbol
		}
		if info, ok := domain.Lookup(to); ok {
			response.ToSymbol = info.Symbol
		}

		s.writeJSON(rw, http.StatusOK, response)
	}
}

func (s *Server) writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		level.Error(s.Logger).Log("msg", "encoding response", "err", err)
		s.writeError(rw, http.StatusInternalServerError, "failed json encoding")
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	rw.Write(bytes)
}

func (s *Server) writeError(rw http.ResponseWriter, status int, msg string) {
	bytes, _ := json.Marshal(map[string]string{"error": msg})
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	rw.Write(bytes)
}
