package yahoo

import (
	"github.com/stockpilot/quant/pkg/httputil"
	"github.com/stockpilot/quant/pkg/logger"
)

// Client handles communication with the Yahoo Finance chart API, the primary
// daily bar source.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// Name identifies this source in logs and run summaries.
func (c *Client) Name() string {
	return "yahoo"
}
