package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/krxusd/internal/contracts"
)

// FetchDailyPrices fetches daily OHLCV data for a stock from the Naver
// Finance chart API
// ⭐ SSOT: 일별 주가 수집은 이 함수에서만
func (c *Client) FetchDailyPrices(ctx context.Context, stockCode string, from, to time.Time) ([]contracts.PricePoint, error) {
	fromStr := strings.ReplaceAll(from.Format("2006-01-02"), "-", "")
	toStr := strings.ReplaceAll(to.Format("2006-01-02"), "-", "")

	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartBaseURL, stockCode, fromStr, toStr,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.naver.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	prices, err := c.parsePriceResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(prices),
	}).Debug("Fetched daily prices")
	return prices, nil
}

// parsePriceResponse parses the chart API response, which is almost-JSON
// with single quotes.
func (c *Client) parsePriceResponse(body string) ([]contracts.PricePoint, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	// Try JSON parsing first
	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return c.parsePriceJSON(rawData)
	}

	// Fallback to regex parsing
	return c.parsePriceRegex(body)
}

// parsePriceJSON parses JSON array format
func (c *Client) parsePriceJSON(rawData [][]interface{}) ([]contracts.PricePoint, error) {
	var prices []contracts.PricePoint
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // Skip header
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		dateStr = strings.Trim(dateStr, "\"")
		if len(dateStr) == 8 {
			dateStr = dateStr[:4] + "-" + dateStr[4:6] + "-" + dateStr[6:8]
		}

		tradeDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		prices = append(prices, contracts.PricePoint{
			Date:   tradeDate,
			Open:   toFloat64(row[1]),
			High:   toFloat64(row[2]),
			Low:    toFloat64(row[3]),
			Close:  toFloat64(row[4]),
			Volume: int64(toFloat64(row[5])),
		})
	}
	return prices, nil
}

// parsePriceRegex parses using regex (fallback)
func (c *Client) parsePriceRegex(body string) ([]contracts.PricePoint, error) {
	re := regexp.MustCompile(`\["(\d{8})",\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+)\]`)
	matches := re.FindAllStringSubmatch(body, -1)

	var prices []contracts.PricePoint
	for _, match := range matches {
		if len(match) < 7 {
			continue
		}

		dateStr := match[1][:4] + "-" + match[1][4:6] + "-" + match[1][6:8]
		tradeDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		open, _ := strconv.ParseFloat(match[2], 64)
		high, _ := strconv.ParseFloat(match[3], 64)
		low, _ := strconv.ParseFloat(match[4], 64)
		closePrice, _ := strconv.ParseFloat(match[5], 64)
		volume, _ := strconv.ParseInt(match[6], 10, 64)

		prices = append(prices, contracts.PricePoint{
			Date:   tradeDate,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return prices, nil
}

// toFloat64 converts various chart API cell types to float64
func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.Trim(val, "\""), ",", ""), 64)
		return f
	case int64:
		return float64(val)
	default:
		return 0
	}
}
