package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/internal/marketdata"
	"github.com/wonny/krxusd/internal/service"
	"github.com/wonny/krxusd/pkg/logger"
)

// StockHandler handles stock data API endpoints
// ⭐ SSOT: 종목 데이터 API 핸들러는 이 구조체에서만
type StockHandler struct {
	stockRepo contracts.StockRepository
	priceRepo contracts.PriceRepository
	usd       *service.UsdService
	logger    *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(
	stockRepo contracts.StockRepository,
	priceRepo contracts.PriceRepository,
	usd *service.UsdService,
	log *logger.Logger,
) *StockHandler {
	return &StockHandler{
		stockRepo: stockRepo,
		priceRepo: priceRepo,
		usd:       usd,
		logger:    log,
	}
}

// Search finds stocks by code prefix or name substring
// GET /api/stocks/search?q=삼성&limit=20
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	stocks, err := h.stockRepo.Search(ctx, q, limit)
	if err != nil {
		h.logger.WithError(err).WithField("query", q).Error("Failed to search stocks")
		respondError(w, http.StatusInternalServerError, "Failed to search stocks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stocks,
	})
}

// GetStock returns a stock's master record
// GET /api/stocks/{code}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := mux.Vars(r)["code"]

	stock, err := h.stockRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			respondError(w, http.StatusNotFound, "stock not found")
			return
		}
		h.logger.WithError(err).WithField("code", code).Error("Failed to get stock")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve stock")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stock,
	})
}

// DailyPriceResponse represents a daily KRW price record for API response
type DailyPriceResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// GetHistory returns the raw KRW daily price series
// GET /api/stocks/{code}/history?days=365
func (h *StockHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := mux.Vars(r)["code"]

	days := 365
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	prices, err := h.priceRepo.GetByCodeAndDateRange(ctx, code, from, to)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"code": code,
			"days": days,
		}).Error("Failed to get daily prices")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve daily prices")
		return
	}

	result := make([]DailyPriceResponse, len(prices))
	for i, p := range prices {
		result[i] = DailyPriceResponse{
			Date:   p.Date.Format("2006-01-02"),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// GetUsdHistory returns the USD-converted daily series
// GET /api/stocks/{code}/usd?start=&end=&carry_forward=true
func (h *StockHandler) GetUsdHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := mux.Vars(r)["code"]

	opts, err := parseRangeOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	hist, err := h.usd.History(ctx, code, opts)
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			respondError(w, http.StatusNotFound, "stock not found")
			return
		}
		h.logger.WithError(err).WithField("code", code).Error("Failed to get USD history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve USD history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    hist,
	})
}

// GetCurrentUsd returns the live quote converted at the current rate
// GET /api/stocks/{code}/usd/current
func (h *StockHandler) GetCurrentUsd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := mux.Vars(r)["code"]

	current, err := h.usd.Current(ctx, code)
	if err != nil {
		h.logger.WithError(err).WithField("code", code).Error("Failed to get current USD quote")
		respondError(w, http.StatusBadGateway, "Failed to retrieve current quote")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    current,
	})
}

// GetAnalysis returns the merged USD series with its analytics suite.
// A series too thin to analyze still responds 200 with null analytics and a
// reason; only lookup and repository failures become error statuses.
// GET /api/stocks/{code}/analysis?start=&end=
func (h *StockHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := mux.Vars(r)["code"]

	opts, err := parseRangeOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	report, err := h.usd.AnalysisReport(ctx, code, opts)
	if err != nil {
		if errors.Is(err, marketdata.ErrNotFound) {
			respondError(w, http.StatusNotFound, "stock not found")
			return
		}
		h.logger.WithError(err).WithField("code", code).Error("Failed to run analysis")
		respondError(w, http.StatusInternalServerError, "Failed to run analysis")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    report,
	})
}
