package handlers

import (
	"net/http"

	"github.com/wonny/krxusd/internal/contracts"
	"github.com/wonny/krxusd/internal/service"
	"github.com/wonny/krxusd/pkg/logger"
)

// ExchangeHandler handles USD/KRW exchange rate endpoints
type ExchangeHandler struct {
	usd    *service.UsdService
	logger *logger.Logger
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(usd *service.UsdService, log *logger.Logger) *ExchangeHandler {
	return &ExchangeHandler{usd: usd, logger: log}
}

// GetCurrent returns the latest USD/KRW rate
// GET /api/exchange/current
func (h *ExchangeHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rate, err := h.usd.CurrentRate(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get current exchange rate")
		respondError(w, http.StatusBadGateway, "Failed to retrieve current exchange rate")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rate,
	})
}

// RateResponse represents one daily rate record for API response
type RateResponse struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// GetHistory returns the stored daily rate series
// GET /api/exchange/history?start=&end=
func (h *ExchangeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := parseRangeOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	rates, err := h.usd.RateHistory(ctx, opts)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get exchange rate history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve exchange rate history")
		return
	}

	result := make([]RateResponse, len(rates))
	for i, rp := range rates {
		result[i] = RateResponse{
			Date:  contracts.DateKey(rp.Date),
			Close: rp.Close,
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}
