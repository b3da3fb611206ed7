package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/pkg/logger"
)

// ErrMissingCredential marks a provider whose API key is absent. Adapters
// return it before any network call is attempted.
var ErrMissingCredential = errors.New("missing provider credential")

type AlphaVantage struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// avEnvelope carries the out-of-band failure fields Alpha Vantage embeds in
// otherwise-200 responses. "Note" is how it reports rate limiting.
type avEnvelope struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
}

type avSeriesResponse struct {
	avEnvelope
	Data []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
}

type avExchangeResponse struct {
	avEnvelope
	Rate struct {
		ExchangeRate string `json:"5. Exchange Rate"`
	} `json:"Realtime Currency Exchange Rate"`
}

func NewAlphaVantage(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *AlphaVantage {
	return &AlphaVantage{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (e avEnvelope) err() error {
	if e.ErrorMessage != "" {
		return fmt.Errorf("alpha vantage error: %s", e.ErrorMessage)
	}
	if e.Note != "" {
		return fmt.Errorf("alpha vantage rate limit: %s", e.Note)
	}
	return nil
}

func (a *AlphaVantage) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned non-OK status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Commodity returns a provider for one of Alpha Vantage's daily commodity
// series (e.g. WTI, NATURAL_GAS). The newest parseable observation wins;
// placeholder values are skipped.
func (a *AlphaVantage) Commodity(function, name string) ports.PriceProvider {
	return &avCommodity{av: a, function: function, name: name}
}

type avCommodity struct {
	av       *AlphaVantage
	function string
	name     string
}

func (c *avCommodity) Name() string {
	return c.name
}

func (c *avCommodity) FetchUSD(ctx context.Context) (float64, error) {
	if c.av.apiKey == "" {
		return 0, ErrMissingCredential
	}

	url := fmt.Sprintf("%s/query?function=%s&interval=daily&apikey=%s",
		c.av.baseURL, c.function, c.av.apiKey)

	var apiResp avSeriesResponse
	if err := c.av.getJSON(ctx, url, &apiResp); err != nil {
		return 0, err
	}

	if err := apiResp.avEnvelope.err(); err != nil {
		return 0, err
	}

	for _, obs := range apiResp.Data {
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		return value, nil
	}

	return 0, fmt.Errorf("no price data returned for %s", c.function)
}

// Metal returns a provider for a precious metal quoted as a USD exchange
// rate (XAU, XAG). Alpha Vantage reports units-per-USD, so the rate is
// inverted to get USD per ounce.
func (a *AlphaVantage) Metal(symbol, name string) ports.PriceProvider {
	return &avMetal{av: a, symbol: symbol, name: name}
}

type avMetal struct {
	av     *AlphaVantage
	symbol string
	name   string
}

func (m *avMetal) Name() string {
	return m.name
}

func (m *avMetal) FetchUSD(ctx context.Context) (float64, error) {
	if m.av.apiKey == "" {
		return 0, ErrMissingCredential
	}

	url := fmt.Sprintf("%s/query?function=CURRENCY_EXCHANGE_RATE&from_currency=USD&to_currency=%s&apikey=%s",
		m.av.baseURL, m.symbol, m.av.apiKey)

	var apiResp avExchangeResponse
	if err := m.av.getJSON(ctx, url, &apiResp); err != nil {
		return 0, err
	}

	if err := apiResp.avEnvelope.err(); err != nil {
		return 0, err
	}

	if apiResp.Rate.ExchangeRate == "" {
		return 0, fmt.Errorf("no exchange rate returned for %s", m.symbol)
	}

	rate, err := strconv.ParseFloat(apiResp.Rate.ExchangeRate, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed exchange rate for %s: %w", m.symbol, err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive exchange rate for %s: %f", m.symbol, rate)
	}

	return 1.0 / rate, nil
}
