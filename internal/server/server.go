// Package server exposes the budget engine over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/catalog"
	"github.com/theirongolddev/cbudget/internal/log"
	"github.com/theirongolddev/cbudget/internal/model"

	"golang.org/x/sync/errgroup"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr    string
	Catalog catalog.Catalog
	// Incomes are used when a request omits its own.
	Incomes []model.IncomeEntry
	// Expenses are the starting entries requests adjust. Catalog defaults when nil.
	Expenses []model.ExpenseCategory
	// Months is the horizon used when a request omits horizon_months.
	Months          int
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	Logger          *log.Logger
}

// Status is served at /v1/status.
type Status struct {
	StartedAt   time.Time `json:"started_at"`
	Addr        string    `json:"addr"`
	Categories  int       `json:"categories"`
	Months      int       `json:"default_months"`
	Requests    int64     `json:"requests"`
	Evaluations int64     `json:"evaluations"`
	Rejected    int64     `json:"rejected"`
}

// Service provides the HTTP API.
type Service struct {
	cfg Config
	log *log.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	requests    int64
	evaluations int64
	rejected    int64
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Catalog.Len() == 0 {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Incomes == nil {
		cfg.Incomes = catalog.DefaultIncomes()
	}
	if cfg.Expenses == nil {
		cfg.Expenses = cfg.Catalog.Expenses()
	}
	if cfg.Months < 1 {
		cfg.Months = catalog.DefaultMonths
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger.WithComponent(log.ComponentHTTP),
		startedAt: time.Now(),
	}
}

// Handler returns the routed handler wrapped in request-id and logging middleware.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/catalog", s.handleCatalog)
	mux.HandleFunc("/v1/evaluate", s.handleEvaluate)

	return s.requestID(s.logRequests(mux))
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr, log.FieldOperation, log.OpStartup)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down", log.FieldOperation, log.OpShutdown)
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Evaluation evaluates snap into the response body served by /v1/evaluate.
func Evaluation(snap model.Snapshot, withSchedule bool) EvaluateResponse {
	result := budget.Evaluate(snap)
	resp := EvaluateResponse{
		Result:      result,
		Deficit:     result.IsDeficit(),
		SavingsRate: budget.SavingsRate(result),
		Breakdown:   budget.Breakdown(snap),
	}
	if withSchedule {
		resp.Schedule = budget.Schedule(snap)
	}
	return resp
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:   s.startedAt,
		Addr:        s.cfg.Addr,
		Categories:  s.cfg.Catalog.Len(),
		Months:      s.cfg.Months,
		Requests:    s.requests,
		Evaluations: s.evaluations,
		Rejected:    s.rejected,
	}
}

func (s *Service) countRequest() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

func (s *Service) countEvaluation(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.evaluations++
	} else {
		s.rejected++
	}
}
