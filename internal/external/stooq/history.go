package stooq

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/internal/marketdata"
)

// FetchDaily scrapes the historical quotes table for a symbol in [from, to].
func (c *Client) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	fullURL := fmt.Sprintf(
		"%s/q/d/?s=%s&d1=%s&d2=%s&i=d",
		c.baseURL,
		strings.ToLower(symbol),
		from.Format("20060102"),
		to.Format("20060102"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	bars := c.parseHistoryTable(doc, symbol)
	if len(bars) == 0 {
		return nil, contracts.ErrNoData
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily bars from fallback")

	return bars, nil
}

// parseHistoryTable walks the quotes table. Column layout: No., Date, Open,
// High, Low, Close, Volume. Rows that fail to parse are dropped one by one.
func (c *Client) parseHistoryTable(doc *goquery.Document, symbol string) []contracts.Bar {
	var raws []marketdata.RawBar

	doc.Find("table#fth1 tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		raws = append(raws, marketdata.RawBar{
			Symbol: symbol,
			Date:   normalizeDate(strings.TrimSpace(cells.Eq(1).Text())),
			Open:   strings.TrimSpace(cells.Eq(2).Text()),
			High:   strings.TrimSpace(cells.Eq(3).Text()),
			Low:    strings.TrimSpace(cells.Eq(4).Text()),
			Close:  strings.TrimSpace(cells.Eq(5).Text()),
			Volume: strings.TrimSpace(cells.Eq(6).Text()),
		})
	})

	bars, rejected := marketdata.ParseBars(raws, c.logger)
	if rejected > 0 {
		c.logger.WithFields(map[string]interface{}{
			"symbol":   symbol,
			"rejected": rejected,
		}).Warn("Rejected rows in history table")
	}

	// The table lists newest first; the store expects ascending dates.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars
}

// normalizeDate converts the table's "2 Jan 2026" form to 2006-01-02.
// Already-ISO dates pass through unchanged.
func normalizeDate(s string) string {
	if t, err := time.Parse("2 Jan 2006", s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}
