package stooq

import (
	"github.com/stockpilot/quant/pkg/httputil"
	"github.com/stockpilot/quant/pkg/logger"
)

// Client scrapes daily quotes from Stooq, the fallback source. Some
// suspended or illiquid instruments are permanently rejected by the primary
// source's response shape while still trading; Stooq keeps serving them.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Stooq client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://stooq.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// Name identifies this source in logs and run summaries.
func (c *Client) Name() string {
	return "stooq"
}
