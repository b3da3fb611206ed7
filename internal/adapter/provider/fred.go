package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"btc-goods-service/internal/domain/model"
	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/pkg/logger"
	"btc-goods-service/pkg/utils"
)

// missingValueSentinel is how FRED marks a date with no data. It must be
// filtered, never parsed as a number.
const missingValueSentinel = "."

type FRED struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	seriesClient *http.Client
	log          *logger.Logger
}

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func NewFRED(baseURL, apiKey string, timeout, seriesTimeout time.Duration, log *logger.Logger) *FRED {
	return &FRED{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		seriesClient: &http.Client{
			Timeout: seriesTimeout,
		},
		log: log,
	}
}

func (f *FRED) getObservations(ctx context.Context, client *http.Client, url string) (*fredObservationsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned non-OK status: %d", resp.StatusCode)
	}

	var apiResp fredObservationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &apiResp, nil
}

// Latest returns a provider for the newest observation of one FRED series.
func (f *FRED) Latest(seriesID, name string) ports.PriceProvider {
	return &fredLatest{fred: f, seriesID: seriesID, name: name}
}

// LatestIndexed returns a provider for a CPI-style index series, scaling the
// index value against a base-year dollar amount: (index / 100) * base.
func (f *FRED) LatestIndexed(seriesID, name string, base float64) ports.PriceProvider {
	return &fredLatest{fred: f, seriesID: seriesID, name: name, indexBase: base}
}

type fredLatest struct {
	fred      *FRED
	seriesID  string
	name      string
	indexBase float64
}

func (p *fredLatest) Name() string {
	return p.name
}

func (p *fredLatest) FetchUSD(ctx context.Context) (float64, error) {
	if p.fred.apiKey == "" {
		return 0, ErrMissingCredential
	}

	url := fmt.Sprintf("%s/series/observations?series_id=%s&api_key=%s&file_type=json&limit=1&sort_order=desc",
		p.fred.baseURL, p.seriesID, p.fred.apiKey)

	apiResp, err := p.fred.getObservations(ctx, p.fred.httpClient, url)
	if err != nil {
		return 0, err
	}

	if len(apiResp.Observations) == 0 || apiResp.Observations[0].Value == missingValueSentinel {
		return 0, fmt.Errorf("no usable observation for series %s", p.seriesID)
	}

	value, err := strconv.ParseFloat(apiResp.Observations[0].Value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed observation for series %s: %w", p.seriesID, err)
	}

	if p.indexBase > 0 {
		return (value / 100) * p.indexBase, nil
	}
	return value, nil
}

// FetchObservations fetches a monthly observation range, implementing
// ports.SeriesRepository for the historical endpoint. There is no fallback
// path here: a missing key or upstream failure is the caller's problem.
func (f *FRED) FetchObservations(ctx context.Context, seriesID string, from, to time.Time) ([]model.Observation, error) {
	if f.apiKey == "" {
		return nil, ErrMissingCredential
	}

	url := fmt.Sprintf("%s/series/observations?series_id=%s&api_key=%s&file_type=json&observation_start=%s&observation_end=%s&frequency=m",
		f.baseURL, seriesID, f.apiKey, utils.FormatDate(from), utils.FormatDate(to))

	apiResp, err := f.getObservations(ctx, f.seriesClient, url)
	if err != nil {
		return nil, err
	}

	observations := make([]model.Observation, 0, len(apiResp.Observations))
	for _, obs := range apiResp.Observations {
		if obs.Value == missingValueSentinel {
			continue
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			f.log.Debug("Skipping malformed observation", "series", seriesID, "date", obs.Date, "value", obs.Value)
			continue
		}
		observations = append(observations, model.Observation{
			Date:  obs.Date,
			Value: value,
		})
	}

	return observations, nil
}
