package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"btc-goods-service/internal/domain/model"
	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/pkg/logger"
)

type MockCatalog struct {
	LookupFunc          func(key string) (model.Item, ports.PriceProvider, bool)
	GroupByCategoryFunc func() map[model.Category][]model.ItemDescriptor
}

func (m *MockCatalog) Lookup(key string) (model.Item, ports.PriceProvider, bool) {
	return m.LookupFunc(key)
}

func (m *MockCatalog) GroupByCategory() map[model.Category][]model.ItemDescriptor {
	return m.GroupByCategoryFunc()
}

type MockProvider struct {
	FetchUSDFunc func(ctx context.Context) (float64, error)
	Calls        int
}

func (m *MockProvider) FetchUSD(ctx context.Context) (float64, error) {
	m.Calls++
	return m.FetchUSDFunc(ctx)
}

func (m *MockProvider) Name() string {
	return "mock"
}

type MockBTCSource struct {
	PriceFunc func(ctx context.Context) float64
	Calls     int
}

func (m *MockBTCSource) Price(ctx context.Context) float64 {
	m.Calls++
	return m.PriceFunc(ctx)
}

// passthroughResolver applies the fail-soft contract without metrics.
type passthroughResolver struct{}

func (passthroughResolver) ResolveUSD(ctx context.Context, p ports.PriceProvider, fallback float64) float64 {
	price, err := p.FetchUSD(ctx)
	if err != nil {
		return fallback
	}
	return price
}

type MockSeriesRepository struct {
	FetchObservationsFunc func(ctx context.Context, seriesID string, from, to time.Time) ([]model.Observation, error)
	Calls                 int
}

func (m *MockSeriesRepository) FetchObservations(ctx context.Context, seriesID string, from, to time.Time) ([]model.Observation, error) {
	m.Calls++
	return m.FetchObservationsFunc(ctx, seriesID, from, to)
}

func catalogWith(items map[string]model.Item, provider ports.PriceProvider) *MockCatalog {
	return &MockCatalog{
		LookupFunc: func(key string) (model.Item, ports.PriceProvider, bool) {
			item, found := items[key]
			if !found {
				return model.Item{}, nil, false
			}
			return item, provider, true
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestConverterService_Convert(t *testing.T) {

	log := logger.NewLogger("debug")

	oil := model.Item{Key: "oil", Category: model.Energy, Unit: "barrel", FallbackUSD: 75.0}
	gold := model.Item{Key: "gold", Category: model.Commodities, Unit: "ounce", FallbackUSD: 2000.0}

	testCases := []struct {
		name           string
		request        model.ConversionRequest
		items          map[string]model.Item
		itemPrice      float64
		itemFetchErr   error
		btcPrice       float64
		expectedResult *model.ConversionResult
		expectedError  error
		expectNoFetch  bool
	}{
		{
			name: "Success - BTC to oil",
			request: model.ConversionRequest{
				Direction: model.BTCToItem,
				ItemKey:   "oil",
				BTCAmount: floatPtr(0.1),
			},
			items:     map[string]model.Item{"oil": oil},
			itemPrice: 75.0,
			btcPrice:  50000,
			expectedResult: &model.ConversionResult{
				Quantity: 66.666667,
				USDItem:  75.00,
				USDTotal: 5000.00,
				BTCPrice: 50000.00,
			},
		},
		{
			name: "Success - gold to sats",
			request: model.ConversionRequest{
				Direction: model.ItemToBTC,
				ItemKey:   "gold",
				Quantity:  floatPtr(1),
				Sats:      true,
			},
			items:     map[string]model.Item{"gold": gold},
			itemPrice: 2000.0,
			btcPrice:  50000,
			expectedResult: &model.ConversionResult{
				Quantity: 4000000,
				USDItem:  2000.00,
				USDTotal: 2000.00,
				BTCPrice: 50000.00,
			},
		},
		{
			name: "Success - provider failure falls back, conversion still succeeds",
			request: model.ConversionRequest{
				Direction: model.BTCToItem,
				ItemKey:   "oil",
				BTCAmount: floatPtr(0.1),
			},
			items:        map[string]model.Item{"oil": oil},
			itemFetchErr: errors.New("network error"),
			btcPrice:     50000,
			expectedResult: &model.ConversionResult{
				Quantity: 66.666667,
				USDItem:  75.00,
				USDTotal: 5000.00,
				BTCPrice: 50000.00,
			},
		},
		{
			name: "Error - invalid direction",
			request: model.ConversionRequest{
				Direction: model.Direction("sideways"),
				ItemKey:   "oil",
				BTCAmount: floatPtr(0.1),
			},
			items:         map[string]model.Item{"oil": oil},
			expectedError: ErrInvalidDirection,
			expectNoFetch: true,
		},
		{
			name: "Error - unknown item",
			request: model.ConversionRequest{
				Direction: model.BTCToItem,
				ItemKey:   "unobtainium",
				BTCAmount: floatPtr(0.1),
			},
			items:         map[string]model.Item{"oil": oil},
			expectedError: ErrUnknownItem,
			expectNoFetch: true,
		},
		{
			name: "Error - missing btc_amount",
			request: model.ConversionRequest{
				Direction: model.BTCToItem,
				ItemKey:   "oil",
			},
			items:         map[string]model.Item{"oil": oil},
			expectedError: ErrInvalidAmount,
			expectNoFetch: true,
		},
		{
			name: "Error - zero BTC",
			request: model.ConversionRequest{
				Direction: model.BTCToItem,
				ItemKey:   "oil",
				BTCAmount: floatPtr(0),
			},
			items:         map[string]model.Item{"oil": oil},
			expectedError: ErrInvalidAmount,
			expectNoFetch: true,
		},
		{
			name: "Error - infinite btc_amount",
			request: model.ConversionRequest{
				Direction: model.BTCToItem,
				ItemKey:   "oil",
				BTCAmount: floatPtr(math.Inf(1)),
			},
			items:         map[string]model.Item{"oil": oil},
			expectedError: ErrInvalidAmount,
			expectNoFetch: true,
		},
		{
			name: "Error - NaN quantity",
			request: model.ConversionRequest{
				Direction: model.ItemToBTC,
				ItemKey:   "gold",
				Quantity:  floatPtr(math.NaN()),
			},
			items:         map[string]model.Item{"gold": gold},
			expectedError: ErrInvalidQuantity,
			expectNoFetch: true,
		},
		{
			name: "Error - negative quantity",
			request: model.ConversionRequest{
				Direction: model.ItemToBTC,
				ItemKey:   "gold",
				Quantity:  floatPtr(-1),
			},
			items:         map[string]model.Item{"gold": gold},
			expectedError: ErrInvalidQuantity,
			expectNoFetch: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {

			itemProvider := &MockProvider{
				FetchUSDFunc: func(ctx context.Context) (float64, error) {
					if tc.itemFetchErr != nil {
						return 0, tc.itemFetchErr
					}
					return tc.itemPrice, nil
				},
			}
			btcSource := &MockBTCSource{
				PriceFunc: func(ctx context.Context) float64 {
					return tc.btcPrice
				},
			}

			svc := NewConverterService(
				catalogWith(tc.items, itemProvider),
				btcSource,
				passthroughResolver{},
				&MockSeriesRepository{},
				log,
			)

			result, err := svc.Convert(context.Background(), tc.request)

			if (tc.expectedError != nil && err == nil) || (tc.expectedError == nil && err != nil) {
				t.Errorf("Expected error: %v, got: %v", tc.expectedError, err)
			}

			if tc.expectedError != nil && err != nil {
				if !errors.Is(err, tc.expectedError) {
					t.Errorf("Expected error to contain: %v, got: %v", tc.expectedError, err)
				}
			}

			if tc.expectNoFetch && (itemProvider.Calls != 0 || btcSource.Calls != 0) {
				t.Errorf("Expected zero upstream calls on validation failure, got item=%d btc=%d",
					itemProvider.Calls, btcSource.Calls)
			}

			if tc.expectedResult == nil && result != nil {
				t.Errorf("Expected nil result, got: %v", result)
			}

			if tc.expectedResult != nil {
				if result == nil {
					t.Fatal("Expected non-nil result, got nil")
				}

				if tc.expectedResult.Quantity != result.Quantity {
					t.Errorf("Expected quantity: %f, got: %f", tc.expectedResult.Quantity, result.Quantity)
				}

				if tc.expectedResult.USDItem != result.USDItem {
					t.Errorf("Expected usd_item: %f, got: %f", tc.expectedResult.USDItem, result.USDItem)
				}

				if tc.expectedResult.USDTotal != result.USDTotal {
					t.Errorf("Expected usd_total: %f, got: %f", tc.expectedResult.USDTotal, result.USDTotal)
				}

				if tc.expectedResult.BTCPrice != result.BTCPrice {
					t.Errorf("Expected btc_price: %f, got: %f", tc.expectedResult.BTCPrice, result.BTCPrice)
				}
			}
		})
	}
}

func TestConverterService_ConvertPanickingProvider(t *testing.T) {

	log := logger.NewLogger("debug")
	oil := model.Item{Key: "oil", Category: model.Energy, Unit: "barrel", FallbackUSD: 75.0}

	catalog := &MockCatalog{
		LookupFunc: func(key string) (model.Item, ports.PriceProvider, bool) {
			return oil, panickingProvider{}, true
		},
	}
	btcSource := &MockBTCSource{
		PriceFunc: func(ctx context.Context) float64 { return 50000 },
	}

	svc := NewConverterService(catalog, btcSource, passthroughResolver{}, &MockSeriesRepository{}, log)

	result, err := svc.Convert(context.Background(), model.ConversionRequest{
		Direction: model.BTCToItem,
		ItemKey:   "oil",
		BTCAmount: floatPtr(0.1),
	})
	if err != nil {
		t.Fatalf("Expected fallback result, got error: %v", err)
	}

	if result.USDItem != 75.00 {
		t.Errorf("Expected fallback item price 75.00, got: %f", result.USDItem)
	}
}

type panickingProvider struct{}

func (panickingProvider) FetchUSD(ctx context.Context) (float64, error) { panic("boom") }
func (panickingProvider) Name() string                                  { return "panicking" }

func TestConverterService_Historical(t *testing.T) {

	log := logger.NewLogger("debug")

	bread := model.Item{Key: "bread", Category: model.Food, Unit: "loaf", FallbackUSD: 2.50, Historical: true, SeriesID: "APU0000702111"}
	oil := model.Item{Key: "oil", Category: model.Energy, Unit: "barrel", FallbackUSD: 75.0}
	orphan := model.Item{Key: "orphan", Category: model.Food, Unit: "unit", FallbackUSD: 1.0, Historical: true}

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		request        model.HistoricalRequest
		items          map[string]model.Item
		observations   []model.Observation
		fetchErr       error
		expectedError  error
		expectedSeries *model.HistoricalSeries
		expectNoFetch  bool
	}{
		{
			name:    "Success",
			request: model.HistoricalRequest{ItemKey: "bread", FromDate: from, ToDate: to},
			items:   map[string]model.Item{"bread": bread},
			observations: []model.Observation{
				{Date: "2023-01-01", Value: 5000},
				{Date: "2023-02-01", Value: 2500},
			},
			expectedSeries: &model.HistoricalSeries{
				Dates:     []string{"2023-01-01", "2023-02-01"},
				BTCPrices: []float64{0.1, 0.05},
			},
		},
		{
			name:          "Error - unknown item",
			request:       model.HistoricalRequest{ItemKey: "unobtainium", FromDate: from, ToDate: to},
			items:         map[string]model.Item{"bread": bread},
			expectedError: ErrUnknownItem,
			expectNoFetch: true,
		},
		{
			name:          "Error - item without historical support",
			request:       model.HistoricalRequest{ItemKey: "oil", FromDate: from, ToDate: to},
			items:         map[string]model.Item{"oil": oil},
			expectedError: ErrHistoricalUnsupported,
			expectNoFetch: true,
		},
		{
			name:          "Error - historical item without a series",
			request:       model.HistoricalRequest{ItemKey: "orphan", FromDate: from, ToDate: to},
			items:         map[string]model.Item{"orphan": orphan},
			expectedError: ErrNoSeriesConfigured,
			expectNoFetch: true,
		},
		{
			name:          "Error - inverted range",
			request:       model.HistoricalRequest{ItemKey: "bread", FromDate: to, ToDate: from},
			items:         map[string]model.Item{"bread": bread},
			expectedError: ErrInvalidDateRange,
			expectNoFetch: true,
		},
		{
			name:          "Error - range over two years",
			request:       model.HistoricalRequest{ItemKey: "bread", FromDate: from, ToDate: from.AddDate(3, 0, 0)},
			items:         map[string]model.Item{"bread": bread},
			expectedError: ErrDateRangeTooWide,
			expectNoFetch: true,
		},
		{
			name:          "Error - upstream failure is fatal",
			request:       model.HistoricalRequest{ItemKey: "bread", FromDate: from, ToDate: to},
			items:         map[string]model.Item{"bread": bread},
			fetchErr:      errors.New("connection refused"),
			expectedError: ErrUpstreamUnavailable,
		},
		{
			name:          "Error - upstream timeout",
			request:       model.HistoricalRequest{ItemKey: "bread", FromDate: from, ToDate: to},
			items:         map[string]model.Item{"bread": bread},
			fetchErr:      context.DeadlineExceeded,
			expectedError: ErrUpstreamTimeout,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {

			seriesRepo := &MockSeriesRepository{
				FetchObservationsFunc: func(ctx context.Context, seriesID string, from, to time.Time) ([]model.Observation, error) {
					if tc.fetchErr != nil {
						return nil, tc.fetchErr
					}
					return tc.observations, nil
				},
			}
			btcSource := &MockBTCSource{
				PriceFunc: func(ctx context.Context) float64 { return 50000 },
			}

			svc := NewConverterService(
				catalogWith(tc.items, &MockProvider{}),
				btcSource,
				passthroughResolver{},
				seriesRepo,
				log,
			)

			series, err := svc.Historical(context.Background(), tc.request)

			if (tc.expectedError != nil && err == nil) || (tc.expectedError == nil && err != nil) {
				t.Errorf("Expected error: %v, got: %v", tc.expectedError, err)
			}

			if tc.expectedError != nil && err != nil {
				if !errors.Is(err, tc.expectedError) {
					t.Errorf("Expected error to contain: %v, got: %v", tc.expectedError, err)
				}
			}

			if tc.expectNoFetch && seriesRepo.Calls != 0 {
				t.Errorf("Expected zero series fetches on validation failure, got: %d", seriesRepo.Calls)
			}

			if tc.expectedSeries != nil {
				if series == nil {
					t.Fatal("Expected non-nil series, got nil")
				}

				if len(series.Dates) != len(tc.expectedSeries.Dates) {
					t.Fatalf("Expected %d dates, got: %d", len(tc.expectedSeries.Dates), len(series.Dates))
				}

				for i := range tc.expectedSeries.Dates {
					if series.Dates[i] != tc.expectedSeries.Dates[i] {
						t.Errorf("Expected date: %s, got: %s", tc.expectedSeries.Dates[i], series.Dates[i])
					}
					if series.BTCPrices[i] != tc.expectedSeries.BTCPrices[i] {
						t.Errorf("Expected BTC price: %f, got: %f", tc.expectedSeries.BTCPrices[i], series.BTCPrices[i])
					}
				}
			}
		})
	}
}
