// Package demoengine serves canned pricing-engine responses over HTTP so
// the console can run offline and end-to-end tests have a real peer.
package demoengine

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"drawdown-console/internal/models"
	"drawdown-console/internal/security"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultAddr is where the demo engine listens unless told otherwise.
const DefaultAddr = "127.0.0.1:8001"

// StatusMessage is returned by the root route.
const StatusMessage = "Drawdown Labs Engine Online"

type Config struct {
	Addr string
}

type Server struct {
	router *chi.Mux
	server *http.Server
	logger zerolog.Logger
	addr   string
}

func NewServer(cfg Config, logger zerolog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{
		router: chi.NewRouter(),
		logger: logger.With().Str("component", "demoengine").Logger(),
		addr:   cfg.Addr,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/", s.handleStatus)
	s.router.Get("/api/stock/{ticker}", s.handleStock)
	s.router.Get("/api/chain/{ticker}/{date}", s.handleChain)

	s.router.Post(models.KindAnalyze.Path(), s.simulation(func(r analysisRequest) interface{} { return analyze(r) }))
	s.router.Post(models.KindGreeksProfile.Path(), s.simulation(func(analysisRequest) interface{} { return greeksProfile() }))
	s.router.Post(models.KindVolSim.Path(), s.simulation(func(analysisRequest) interface{} { return volSim() }))
	s.router.Post(models.KindHedgingCalc.Path(), s.simulation(func(analysisRequest) interface{} { return hedging() }))
	s.router.Post(models.KindScenario.Path(), s.simulation(func(r analysisRequest) interface{} { return scenario(r) }))
	s.router.Post(models.KindHeatmap.Path(), s.simulation(func(analysisRequest) interface{} { return heatmap() }))
}

// Handler exposes the router, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return s.addr
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("Starting demo engine")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("demo engine: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Served")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeDetail(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": StatusMessage})
}

func tickerParam(r *http.Request) (string, error) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))
	if err := security.ValidateTicker(ticker); err != nil {
		return "", err
	}
	return ticker, nil
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	ticker, err := tickerParam(r)
	if err != nil {
		s.writeDetail(w, http.StatusNotFound, fmt.Sprintf("No data for %s", chi.URLParam(r, "ticker")))
		return
	}
	s.logger.Debug().Str("ticker", ticker).Msg("Serving demo snapshot")
	s.writeJSON(w, http.StatusOK, stock())
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	if _, err := tickerParam(r); err != nil {
		s.writeDetail(w, http.StatusNotFound, fmt.Sprintf("No data for %s", chi.URLParam(r, "ticker")))
		return
	}
	s.writeJSON(w, http.StatusOK, chain(chi.URLParam(r, "date")))
}

func (s *Server) simulation(build func(analysisRequest) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeDetail(w, http.StatusUnprocessableEntity, "Request body must be a JSON object")
			return
		}
		if req.Ticker == "" {
			s.writeDetail(w, http.StatusUnprocessableEntity, "ticker is required")
			return
		}
		s.writeJSON(w, http.StatusOK, build(req))
	}
}
