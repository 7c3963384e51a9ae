package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stockpilot/quant/internal/contracts"
)

// chartResponse mirrors the subset of the Yahoo chart payload we consume.
// Quote arrays use pointers because Yahoo emits nulls for halted sessions.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily fetches daily bars for a symbol in [from, to]. Rows with null
// fields are rejected individually; an empty result maps to
// contracts.ErrNoData so the caller can distinguish "nothing to fetch" from
// transport failure.
func (c *Client) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	// to is truncated to midnight; the day's bar is timestamped after it,
	// so the upper bound must cover through the end of that day.
	fullURL := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		c.baseURL, url.PathEscape(symbol), from.Unix(), to.AddDate(0, 0, 1).Unix(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, contracts.ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	bars, err := c.parseChart(symbol, body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily bars from primary")

	return bars, nil
}

// parseChart converts the chart payload into validated bars.
func (c *Client) parseChart(symbol string, body []byte) ([]contracts.Bar, error) {
	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoData, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, contracts.ErrNoData
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	var adjclose []*float64
	if len(result.Indicators.Adjclose) > 0 {
		adjclose = result.Indicators.Adjclose[0].Adjclose
	}

	rejected := 0
	bars := make([]contracts.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || quote.Open[i] == nil || quote.High[i] == nil ||
			quote.Low[i] == nil || quote.Close[i] == nil {
			rejected++
			continue
		}

		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		adj := *quote.Close[i]
		if i < len(adjclose) && adjclose[i] != nil {
			adj = *adjclose[i]
		}

		b := contracts.Bar{
			Symbol:   symbol,
			Date:     time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:     *quote.Open[i],
			High:     *quote.High[i],
			Low:      *quote.Low[i],
			Close:    *quote.Close[i],
			Volume:   volume,
			AdjClose: adj,
		}
		if err := b.Validate(); err != nil {
			rejected++
			continue
		}
		bars = append(bars, b)
	}

	if rejected > 0 {
		c.logger.WithFields(map[string]interface{}{
			"symbol":   symbol,
			"rejected": rejected,
		}).Warn("Rejected rows in chart response")
	}

	if len(bars) == 0 {
		return nil, contracts.ErrNoData
	}
	return bars, nil
}
