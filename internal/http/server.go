// Package http exposes the ledger, reports and sync operations as a
// JSON API.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"financas/internal/cache"
	"financas/internal/log"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/services"
	"financas/internal/sync"
)

// Server wires the application services into an HTTP handler.
type Server struct {
	ledger         *services.LedgerService
	reports        *services.Reports
	fixedProcessor *services.FixedExpenseProcessor
	syncEngine     *sync.Engine
	exporter       *services.Exporter
	logger         *log.Logger
	metricsEnabled bool

	limiter      *ratelimit.Limiter
	reportsCache *cache.LRUCache[cachedResponse]
	cacheManager *cache.Manager
}

func NewServer(
	ledger *services.LedgerService,
	reports *services.Reports,
	fixedProcessor *services.FixedExpenseProcessor,
	syncEngine *sync.Engine,
	logger *log.Logger,
) *Server {
	s := &Server{
		ledger:         ledger,
		reports:        reports,
		fixedProcessor: fixedProcessor,
		syncEngine:     syncEngine,
		logger:         logger,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		reportsCache:   cache.NewLRUCache[cachedResponse](128, time.Minute),
	}

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.reportsCache)
	s.cacheManager.Register(s.limiter)
	s.cacheManager.StartCleanup(5 * time.Minute)

	return s
}

// Close stops the background cache cleanup.
func (s *Server) Close() {
	s.cacheManager.Stop()
}

// SetExporter enables the spreadsheet export endpoint.
func (s *Server) SetExporter(exporter *services.Exporter) { s.exporter = exporter }

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(log.Middleware(s.logger.WithComponent(log.ComponentHTTP)))
	r.Use(requestLogger)
	r.Use(requestMetrics)
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimitWrites)
		r.Use(s.invalidateReportsOnWrite)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
			r.Post("/{id}/paid", s.handleTogglePaid)
			r.Post("/replicate", s.handleReplicate)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleCreateGoal)
			r.Put("/{id}", s.handleUpdateGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
			r.Post("/{id}/allocate", s.handleAllocateToGoal)
		})

		r.Route("/fixed-expenses", func(r chi.Router) {
			r.Get("/", s.handleListFixedExpenses)
			r.Post("/", s.handleCreateFixedExpense)
			r.Put("/{id}", s.handleUpdateFixedExpense)
			r.Delete("/{id}", s.handleDeleteFixedExpense)
			r.Post("/generate", s.handleGenerateFixedExpenses)
		})

		r.Route("/savings", func(r chi.Router) {
			r.Get("/", s.handleGetSavings)
			r.Get("/history", s.handleSavingsHistory)
			r.Post("/deposit", s.handleDeposit)
			r.Post("/withdraw", s.handleWithdraw)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Put("/", s.handleSaveSettings)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(s.cacheReports)
			r.Get("/balance", s.handleBalance)
			r.Get("/monthly/{year}/{month}", s.handleMonthlyBalance)
			r.Get("/categories", s.handleExpensesByCategory)
			r.Get("/series", s.handleMonthlySeries)
			r.Get("/upcoming", s.handleUpcomingDue)
			r.Get("/months", s.handleAvailableMonths)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Post("/", s.handleSync)
			r.Delete("/", s.handleDisconnect)
			r.Post("/setup", s.handleSyncSetup)
			r.Post("/push", s.handleSyncPush)
			r.Post("/pull", s.handleSyncPull)
			r.Get("/status", s.handleSyncStatus)
			r.Get("/devices", s.handleListDevices)
			r.Delete("/devices/{id}", s.handleRemoveDevice)
			r.Post("/devices/{id}/block", s.handleBlockDevice)
		})

		r.Get("/export", s.handleExportData)
		r.Post("/export/sheets", s.handleExportSheets)
		r.Post("/import", s.handleImportData)
		r.Post("/clear", s.handleClearData)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// requestLogger logs one line per request with status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger := log.FromContext(r.Context())
		logger.InfoContext(r.Context(), "HTTP request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, ww.Status(),
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldRequestID, middleware.GetReqID(r.Context()),
		)
	})
}
