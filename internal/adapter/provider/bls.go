package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/pkg/logger"
)

type BLS struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

type blsRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey"`
}

type blsResponse struct {
	Status  string `json:"status"`
	Results struct {
		Series []struct {
			Data []struct {
				Value string `json:"value"`
			} `json:"data"`
		} `json:"series"`
	} `json:"Results"`
}

func NewBLS(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *BLS {
	return &BLS{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Series returns a provider for the latest data point of one BLS time
// series. BLS requires a registration key for its JSON API.
func (b *BLS) Series(seriesID, name string) ports.PriceProvider {
	return &blsSeries{bls: b, seriesID: seriesID, name: name}
}

type blsSeries struct {
	bls      *BLS
	seriesID string
	name     string
}

func (s *blsSeries) Name() string {
	return s.name
}

func (s *blsSeries) FetchUSD(ctx context.Context) (float64, error) {
	if s.bls.apiKey == "" {
		return 0, ErrMissingCredential
	}

	year := time.Now().Year()
	payload, err := json.Marshal(blsRequest{
		SeriesID:        []string{s.seriesID},
		StartYear:       strconv.Itoa(year - 1),
		EndYear:         strconv.Itoa(year),
		RegistrationKey: s.bls.apiKey,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/timeseries/data/", s.bls.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.bls.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned non-OK status: %d", resp.StatusCode)
	}

	var apiResp blsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Status != "REQUEST_SUCCEEDED" {
		return 0, fmt.Errorf("BLS request failed with status: %s", apiResp.Status)
	}

	if len(apiResp.Results.Series) == 0 || len(apiResp.Results.Series[0].Data) == 0 {
		return 0, fmt.Errorf("no data returned for series %s", s.seriesID)
	}

	value, err := strconv.ParseFloat(apiResp.Results.Series[0].Data[0].Value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed value for series %s: %w", s.seriesID, err)
	}

	return value, nil
}
