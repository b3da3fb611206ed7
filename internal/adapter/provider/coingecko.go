package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"btc-goods-service/pkg/logger"
)

// CoinGecko fetches the spot BTC/USD price. No credential required.
type CoinGecko struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

type coinGeckoResponse struct {
	Bitcoin struct {
		USD float64 `json:"usd"`
	} `json:"bitcoin"`
}

func NewCoinGecko(baseURL string, timeout time.Duration, log *logger.Logger) *CoinGecko {
	return &CoinGecko{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *CoinGecko) Name() string {
	return "coingecko"
}

func (c *CoinGecko) FetchUSD(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/simple/price?ids=bitcoin&vs_currencies=usd", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned non-OK status: %d", resp.StatusCode)
	}

	var apiResp coinGeckoResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Bitcoin.USD <= 0 {
		return 0, fmt.Errorf("no BTC price returned")
	}

	return apiResp.Bitcoin.USD, nil
}
