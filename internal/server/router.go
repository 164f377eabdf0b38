package server

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/happygreeting/billing-app/internal/handlers"
	"github.com/happygreeting/billing-app/internal/httpx"
	"github.com/happygreeting/billing-app/internal/services"
	"github.com/happygreeting/billing-app/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, log *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	st := store.NewGormStore(db, log)
	products := services.NewProductService(db)
	settings := services.NewSettingsService(db)

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(st, products, settings, log)
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.List(w, r)
		case http.MethodPost:
			ih.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/invoices/new", ih.NewDraft)
	mux.HandleFunc("/invoices/next-number", ih.NextNumber)
	mux.HandleFunc("/invoices/update", ih.Update)
	mux.HandleFunc("/invoices/delete", ih.Delete)
	mux.HandleFunc("/invoices/watch", ih.Watch)

	// Product catalog endpoints
	ph := handlers.NewProductHandler(products)
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/products/update", ph.Update)
	mux.HandleFunc("/products/delete", ph.Delete)

	// Company settings
	sh := handlers.NewSettingsHandler(settings)
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			sh.Get(w, r)
		case http.MethodPut, http.MethodPost:
			sh.Put(w, r)
		default:
			w.Header().Set("Allow", "GET,PUT")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})

	// Dashboard
	dh := handlers.NewDashboardHandler(st)
	mux.HandleFunc("/dashboard/summary", dh.Summary)

	return withRecover(withLogging(mux, log), log)
}

func withLogging(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

func withRecover(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).Error("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
