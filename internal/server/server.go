// Package server exposes the dashboard HTTP API. Market-data endpoints
// never fail: the service layer always resolves a value. Curated-list
// endpoints surface backend errors, because the backend owns that data.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
)

// Server is the dashboard HTTP server.
type Server struct {
	config  *common.Config
	logger  *common.Logger
	market  interfaces.MarketDataService
	curated interfaces.CuratedService

	// Refresh signals fan out to every open event stream; the shared
	// service channel delivers each signal only once.
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
	done chan struct{}
	stop sync.Once

	httpServer *http.Server
}

// NewServer wires the HTTP API around the two services.
func NewServer(config *common.Config, logger *common.Logger, market interfaces.MarketDataService, curated interfaces.CuratedService) *Server {
	s := &Server{
		config:  config,
		logger:  logger,
		market:  market,
		curated: curated,
		subs:    make(map[chan struct{}]struct{}),
		done:    make(chan struct{}),
	}
	go s.pumpRefresh()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/search", s.handleSearch)

		r.Route("/stocks/{symbol}", func(r chi.Router) {
			r.Get("/", s.handleStockDetail)
			r.Get("/history", s.handleHistory)
			r.Get("/news", s.handleNews)
			r.Get("/financials", s.handleFinancials)
			r.Get("/technicals", s.handleTechnicals)
			r.Get("/ownership", s.handleOwnership)
			r.Get("/target", s.handlePriceTarget)
			r.Get("/debt-maturity", s.handleDebtMaturity)
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/treasury", s.handleTreasury)
			r.Get("/sectors", s.handleSectors)
		})

		r.Route("/curated", func(r chi.Router) {
			r.Get("/", s.handleListCurated)
			r.Post("/", s.handleAddCurated)
			r.Put("/reorder", s.handleReorderCurated)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", s.handleUpdateCuratedNotes)
				r.Delete("/", s.handleRemoveCurated)
				r.Get("/thesis", s.handleListThesis)
				r.Post("/thesis", s.handleAddThesis)
			})
		})

		r.Get("/thesis", s.handleAllThesis)
		r.Delete("/thesis/{id}", s.handleDeleteThesis)

		r.Get("/events", s.handleEvents)
	})

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler: r,
	}
	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop.Do(func() { close(s.done) })
	return s.httpServer.Shutdown(ctx)
}

// pumpRefresh forwards curated-list refresh signals to all subscribers.
func (s *Server) pumpRefresh() {
	for {
		select {
		case <-s.done:
			return
		case <-s.curated.Refresh():
			s.broadcast()
		}
	}
}

// subscribe registers a refresh channel for one event-stream connection.
func (s *Server) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan struct{}) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
}

// broadcast signals every subscriber without blocking; a subscriber with a
// signal already pending needs no second one.
func (s *Server) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
