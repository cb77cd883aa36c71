package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/krxusd/internal/contracts"
)

// basicQuoteResponse mirrors the m.stock.naver.com basic stock payload.
// 숫자 필드는 콤마 포함 문자열로 내려옴
type basicQuoteResponse struct {
	StockName                   string `json:"stockName"`
	ItemCode                    string `json:"itemCode"`
	ClosePrice                  string `json:"closePrice"`
	CompareToPreviousClosePrice string `json:"compareToPreviousClosePrice"`
	FluctuationsRatio           string `json:"fluctuationsRatio"`
	AccumulatedTradingVolume    string `json:"accumulatedTradingVolume"`
}

// FetchQuote fetches the current price snapshot for a stock from the Naver
// mobile stock API
// ⭐ SSOT: 현재가 조회는 이 함수에서만
func (c *Client) FetchQuote(ctx context.Context, stockCode string) (*contracts.Quote, error) {
	apiURL := fmt.Sprintf("https://m.stock.naver.com/api/stock/%s/basic", stockCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var apiResp basicQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	price := parseCommaFloat(apiResp.ClosePrice)
	if price <= 0 {
		return nil, fmt.Errorf("invalid price for %s: %q", stockCode, apiResp.ClosePrice)
	}

	quote := &contracts.Quote{
		Code:          stockCode,
		Name:          apiResp.StockName,
		Price:         price,
		Change:        parseCommaFloat(apiResp.CompareToPreviousClosePrice),
		ChangePercent: parseCommaFloat(apiResp.FluctuationsRatio),
		Volume:        int64(parseCommaFloat(apiResp.AccumulatedTradingVolume)),
		Timestamp:     time.Now(),
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"price":      quote.Price,
	}).Debug("Fetched quote")
	return quote, nil
}
