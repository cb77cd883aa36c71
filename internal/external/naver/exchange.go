package naver

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/krxusd/internal/contracts"
)

// usdkrwMarketIndexCode is the Naver market index code for USD/KRW.
const usdkrwMarketIndexCode = "FX_USDKRW"

// FetchRateHistory fetches daily USD/KRW closes from the Naver market index
// daily quote pages
// ⭐ SSOT: 환율 히스토리 수집은 이 함수에서만
func (c *Client) FetchRateHistory(ctx context.Context, from, to time.Time) ([]contracts.RatePoint, error) {
	var all []contracts.RatePoint
	noDataPages := 0

	// 일별 시세 페이지네이션 (최신 → 과거 순)
	for page := 1; page <= 200; page++ {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		params := url.Values{}
		params.Set("marketindexCd", usdkrwMarketIndexCode)
		params.Set("page", strconv.Itoa(page))

		html, err := c.fetchHTML(ctx, "/marketindex/exchangeDailyQuote.naver", params)
		if err != nil {
			return all, fmt.Errorf("fetch daily quote page %d failed: %w", page, err)
		}

		rates, lastDate, hasMore := c.parseRateHTML(html, from, to)
		all = append(all, rates...)

		// 기준일보다 이전 데이터면 종료
		if !lastDate.IsZero() && lastDate.Before(from) {
			break
		}

		if !hasMore {
			break
		}

		if lastDate.IsZero() {
			noDataPages++
			if noDataPages >= 3 {
				break
			}
		} else {
			noDataPages = 0
		}
	}

	// Pages are newest-first; series contract is ascending
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	c.logger.WithFields(map[string]interface{}{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"count": len(all),
	}).Debug("Fetched exchange rate history")
	return all, nil
}

// parseRateHTML parses one daily quote page. Returns the rates inside
// [from, to], the oldest date seen on the page, and whether more rows exist.
func (c *Client) parseRateHTML(html string, from, to time.Time) ([]contracts.RatePoint, time.Time, bool) {
	var rates []contracts.RatePoint
	var lastDate time.Time
	rowCount := 0

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rates, lastDate, false
	}

	doc.Find("table.tbl_exchange tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		rowCount++

		dateStr := strings.TrimSpace(cells.Eq(0).Text())
		date, err := time.Parse("2006.01.02", dateStr)
		if err != nil {
			return
		}

		if lastDate.IsZero() || date.Before(lastDate) {
			lastDate = date
		}

		closeStr := strings.TrimSpace(cells.Eq(1).Text())
		closeRate := parseCommaFloat(closeStr)
		if closeRate <= 0 {
			return
		}

		if date.Before(from) || date.After(to) {
			return
		}

		rates = append(rates, contracts.RatePoint{
			Date:  date,
			Close: closeRate,
		})
	})

	return rates, lastDate, rowCount > 0
}

// FetchCurrentRate fetches the latest USD/KRW close with its change versus
// the previous trading day.
func (c *Client) FetchCurrentRate(ctx context.Context) (*contracts.ExchangeRate, error) {
	params := url.Values{}
	params.Set("marketindexCd", usdkrwMarketIndexCode)
	params.Set("page", "1")

	html, err := c.fetchHTML(ctx, "/marketindex/exchangeDailyQuote.naver", params)
	if err != nil {
		return nil, fmt.Errorf("fetch current rate failed: %w", err)
	}

	// First page is newest-first: row 0 is the latest close, row 1 the prior
	now := time.Now()
	rates, _, _ := c.parseRateHTML(html, now.AddDate(0, 0, -30), now)
	if len(rates) == 0 {
		return nil, fmt.Errorf("no exchange rate rows found")
	}

	latest := rates[0]
	rate := &contracts.ExchangeRate{
		Rate: latest.Close,
		Date: latest.Date,
	}

	if len(rates) > 1 {
		prev := rates[1]
		rate.Change = latest.Close - prev.Close
		rate.ChangePercent = rate.Change / prev.Close * 100
	}

	return rate, nil
}

// parseCommaFloat parses numbers like "1,450.50"
func parseCommaFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return f
}
