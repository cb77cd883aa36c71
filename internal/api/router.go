package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/krxusd/internal/api/handlers"
	"github.com/wonny/krxusd/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	stockHandler *handlers.StockHandler,
	exchangeHandler *handlers.ExchangeHandler,
	compareHandler *handlers.CompareHandler,
	streamHandler *handlers.StreamHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Stock endpoints
	api.HandleFunc("/stocks/search", stockHandler.Search).Methods("GET")
	api.HandleFunc("/stocks/{code}", stockHandler.GetStock).Methods("GET")
	api.HandleFunc("/stocks/{code}/history", stockHandler.GetHistory).Methods("GET")
	api.HandleFunc("/stocks/{code}/usd", stockHandler.GetUsdHistory).Methods("GET")
	api.HandleFunc("/stocks/{code}/usd/current", stockHandler.GetCurrentUsd).Methods("GET")
	api.HandleFunc("/stocks/{code}/analysis", stockHandler.GetAnalysis).Methods("GET")

	// Comparison
	api.HandleFunc("/compare", compareHandler.Compare).Methods("GET")

	// Exchange rate endpoints
	api.HandleFunc("/exchange/current", exchangeHandler.GetCurrent).Methods("GET")
	api.HandleFunc("/exchange/history", exchangeHandler.GetHistory).Methods("GET")

	// Live quote stream
	r.HandleFunc("/ws/quotes", streamHandler.Stream)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "krxusd-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
