package handlers

import (
	"net/http"

	"github.com/wonny/krxusd/internal/service"
	"github.com/wonny/krxusd/pkg/logger"
)

// maxCompareCodes bounds one comparison request.
const maxCompareCodes = 10

// CompareHandler handles multi-stock comparison requests
type CompareHandler struct {
	usd    *service.UsdService
	logger *logger.Logger
}

// NewCompareHandler creates a new compare handler
func NewCompareHandler(usd *service.UsdService, log *logger.Logger) *CompareHandler {
	return &CompareHandler{usd: usd, logger: log}
}

// Compare runs the analytics suite for several stocks at once
// GET /api/compare?codes=005930,000660&start=&end=
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	codes := splitCodes(r.URL.Query().Get("codes"))
	if len(codes) == 0 {
		respondError(w, http.StatusBadRequest, "query parameter 'codes' is required")
		return
	}
	if len(codes) > maxCompareCodes {
		respondError(w, http.StatusBadRequest, "too many codes (max 10)")
		return
	}

	opts, err := parseRangeOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	entries := h.usd.Compare(ctx, codes, opts)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entries,
	})
}
