package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/lens-console/auth"
	"github.com/diewo77/lens-console/httpx"
	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/handlers"
	"github.com/diewo77/lens-console/internal/metrics"
	"github.com/diewo77/lens-console/internal/repository"
	"github.com/diewo77/lens-console/internal/services"
	"github.com/diewo77/lens-console/internal/store"
)

// Deps are the collaborators the route table is built from. Metrics may be
// nil to disable instrumentation and the /metrics endpoint.
type Deps struct {
	Store     *store.Store
	Registry  *repository.Registry
	Clock     services.Clock
	Mailer    services.Mailer
	Renderer  services.Renderer
	Parser    services.SheetParser
	Metrics   *metrics.Registry
	MaxUpload int64
	Log       *zap.Logger
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	deps    Deps
	log     *zap.Logger
	http    metrics.HTTPMetrics
	handler http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(d Deps) *App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	a := &App{mux: http.NewServeMux(), deps: d, log: d.Log, http: metrics.Nop{}}
	if d.Metrics != nil {
		a.http = d.Metrics
	}
	a.setupRoutes()
	// Outermost first: recover, log, session, language.
	a.handler = a.withRecover(a.withLogging(auth.Middleware(withPreferences(a.mux))))
	return a
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) orderMetrics() metrics.OrderMetrics {
	if a.deps.Metrics != nil {
		return a.deps.Metrics
	}
	return metrics.Nop{}
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	d := a.deps
	om := a.orderMetrics()

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	sh := handlers.NewSessionHandler(a.log)
	a.mux.HandleFunc("POST /session", sh.Create)
	a.mux.HandleFunc("GET /session", sh.Current)
	a.mux.HandleFunc("DELETE /session", sh.Delete)

	a.mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.Ping(r.Context()); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Metrics != nil {
		a.mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	oh := handlers.NewOrderHandler(services.NewOrderService(d.Store, om, a.log, d.Clock), d.Registry, d.Clock)
	a.mux.Handle("GET /orders", a.requireAuth(oh.List))
	a.mux.Handle("POST /orders", a.requireAuth(oh.Create))
	a.mux.Handle("POST /orders/quick-deliver", a.requireAuth(oh.QuickDeliver))
	a.mux.Handle("PUT /orders/{id}/status", a.requireAuth(oh.SetStatus))
	a.mux.Handle("DELETE /orders/number/{number}", a.requireAuth(oh.Delete))
	a.mux.Handle("GET /orders/search", a.requireAuth(oh.Search))

	rh := handlers.NewReportHandler(
		services.NewReportService(d.Renderer, d.Clock),
		services.NewClosingService(d.Store, d.Mailer, a.log, d.Clock),
		d.Registry, d.Clock)
	a.mux.Handle("GET /reports/orders.pdf", a.requireAuth(rh.Report))
	a.mux.Handle("GET /statistics", a.requireAuth(rh.Statistics))
	a.mux.Handle("POST /closing", a.requireAuth(rh.Closing))

	fh := handlers.NewReferenceHandler(services.NewReferenceService(d.Store, a.log))
	a.mux.Handle("GET /sellers", a.requireAuth(fh.ListSellers))
	a.mux.Handle("POST /sellers", a.requireAuth(fh.CreateSeller))
	a.mux.Handle("DELETE /sellers/{id}", a.requireAuth(fh.DeleteSeller))
	a.mux.Handle("GET /contacts", a.requireAuth(fh.ListContacts))
	a.mux.Handle("POST /contacts", a.requireAuth(fh.CreateContact))
	a.mux.Handle("DELETE /contacts/{id}", a.requireAuth(fh.DeleteContact))

	mh := handlers.NewMonthlyMetricsHandler(services.NewMonthlyMetricsService(d.Store, d.Parser, om, a.log), d.MaxUpload)
	a.mux.Handle("GET /monthly-metrics", a.requireAuth(mh.Periods))
	a.mux.Handle("GET /monthly-metrics/{period}", a.requireAuth(mh.Get))
	a.mux.Handle("POST /monthly-metrics/{period}", a.requireAuth(mh.Import))

	bh := handlers.NewBackupHandler(services.NewBackupService(d.Store, om, a.log, d.Clock), d.MaxUpload)
	a.mux.Handle("GET /backup", a.requireAuth(bh.Export))
	a.mux.Handle("POST /backup/restore", a.requireAuth(bh.Restore))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth wraps a handler func to require a session.
func (a *App) requireAuth(next http.HandlerFunc) http.Handler {
	return auth.RequireAuth(next)
}

// withPreferences resolves the response language: ?lang= (persisted in a
// cookie), then the lang cookie, then Accept-Language.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = i18n.DetectLanguage(q)
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		if lang == "" {
			lang = r.Header.Get("Accept-Language")
		}
		ctx := i18n.WithLang(r.Context(), i18n.DetectLanguage(lang))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs every request and feeds the latency histogram, labelled
// by the matched route pattern.
func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := "unmatched"
		if _, pattern := a.mux.Handler(r); pattern != "" {
			route = pattern
		}
		a.http.ObserveRequest(route, rec.status, elapsed)
		a.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", elapsed))
	})
}

// withRecover turns a panic into a 500 JSON response.
func (a *App) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log.Error("panic serving request", zap.Any("panic", rec), zap.String("path", r.URL.Path), zap.Stack("stack"))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
