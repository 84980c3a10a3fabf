// Package server wires handlers, middleware and the route table.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-pos/auth"
	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/config"
	"github.com/diewo77/go-pos/internal/handlers"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/diewo77/go-pos/internal/services"
	"go.uber.org/zap"
)

// New constructs the root http.Handler with all routes and middlewares.
func New(repos *repository.Registry, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth verifies the session's user still exists.
	auth.SetUserVerifier(func(ctx context.Context, uid string) bool {
		_, err := repos.Users.Get(ctx, uid)
		return err == nil
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight store probe; an absent key is still a healthy read.
		if _, _, err := repos.Store.Get(r.Context(), "healthz"); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(repos)
	authHandler.Register(mux)
	mux.Handle("/me", auth.Middleware(http.HandlerFunc(authHandler.Me)))

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	listCreate := func(list, create http.HandlerFunc) http.Handler {
		return protected(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		})
	}
	postOnly := func(h http.HandlerFunc) http.Handler {
		return protected(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.Header().Set("Allow", "POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
				return
			}
			h(w, r)
		})
	}

	// Catalog endpoints. List/Create share the collection path; Update and
	// Delete get their own for simplicity.
	ph := handlers.NewProductHandler(repos)
	mux.Handle("/products", listCreate(ph.List, ph.Create))
	mux.Handle("/products/update", postOnly(ph.Update))
	mux.Handle("/products/delete", postOnly(ph.Delete))

	ch := handlers.NewCustomerHandler(repos)
	mux.Handle("/customers", listCreate(ch.List, ch.Create))
	mux.Handle("/customers/update", postOnly(ch.Update))
	mux.Handle("/customers/delete", postOnly(ch.Delete))

	gh := handlers.NewCategoryHandler(repos)
	mux.Handle("/categories", listCreate(gh.List, gh.Create))
	mux.Handle("/categories/update", postOnly(gh.Update))
	mux.Handle("/categories/delete", postOnly(gh.Delete))

	// Sale workflow
	sh := handlers.NewSaleHandler(services.NewSaleManager(repos, cfg))
	mux.Handle("/sale", protected(sh.Current))
	mux.Handle("/sale/customer", postOnly(sh.SelectCustomer))
	mux.Handle("/sale/items", postOnly(sh.AddItem))
	mux.Handle("/sale/items/update", postOnly(sh.UpdateQuantity))
	mux.Handle("/sale/items/remove", postOnly(sh.RemoveItem))
	mux.Handle("/sale/cancel", postOnly(sh.Cancel))
	mux.Handle("/sale/complete", postOnly(sh.Complete))

	// Invoices (sales log, read-only)
	ih := handlers.NewInvoiceHandler(repos)
	mux.Handle("/invoices", protected(ih.List))
	mux.Handle("/invoices/get", protected(ih.Get))

	// Reports and dashboard
	rh := handlers.NewReportHandler(repos, cfg)
	mux.Handle("/reports/summary", protected(rh.Summary))
	mux.Handle("/reports/daily", protected(rh.Daily))
	mux.Handle("/reports/top-products", protected(rh.TopProducts))
	mux.Handle("/dashboard", protected(rh.Dashboard))

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
