package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"btc-goods-service/internal/domain/model"
	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/pkg/logger"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDirection      = errors.New("direction must be 'btc_to_item' or 'item_to_btc'")
	ErrUnknownItem           = errors.New("item not found")
	ErrInvalidAmount         = errors.New("btc_amount is required and must be positive")
	ErrInvalidQuantity       = errors.New("quantity is required and must be positive")
	ErrHistoricalUnsupported = errors.New("historical data not available for item")
	ErrNoSeriesConfigured    = errors.New("no series configured for item")
	ErrInvalidDateRange      = errors.New("from_date must be before to_date")
	ErrDateRangeTooWide      = errors.New("date range cannot exceed 2 years")
	ErrUpstreamUnavailable   = errors.New("upstream data source unavailable")
	ErrUpstreamTimeout       = errors.New("timeout fetching upstream data")
	ErrComputation           = errors.New("conversion computation failed")
)

// maxHistoricalRange caps a historical query span at two years.
const maxHistoricalRange = 730 * 24 * time.Hour

type ConverterService struct {
	catalog  ports.ItemCatalog
	btc      ports.BTCPriceSource
	resolver ports.PriceResolver
	series   ports.SeriesRepository
	log      *logger.Logger
}

func NewConverterService(catalog ports.ItemCatalog, btc ports.BTCPriceSource, resolver ports.PriceResolver, series ports.SeriesRepository, log *logger.Logger) *ConverterService {
	return &ConverterService{
		catalog:  catalog,
		btc:      btc,
		resolver: resolver,
		series:   series,
		log:      log,
	}
}

func (s *ConverterService) ListItems() map[model.Category][]model.ItemDescriptor {
	return s.catalog.GroupByCategory()
}

// Convert runs one conversion. All validation happens before any upstream
// fetch; the BTC price and the item price are then fetched concurrently and
// joined before computing.
func (s *ConverterService) Convert(ctx context.Context, request model.ConversionRequest) (*model.ConversionResult, error) {
	if !request.Direction.IsValid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidDirection, request.Direction)
	}

	item, itemProvider, found := s.catalog.Lookup(request.ItemKey)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, request.ItemKey)
	}

	switch request.Direction {
	case model.BTCToItem:
		if !isValidAmount(request.BTCAmount) {
			return nil, ErrInvalidAmount
		}
	case model.ItemToBTC:
		if !isValidAmount(request.Quantity) {
			return nil, ErrInvalidQuantity
		}
	}

	btcPrice, itemPrice := s.fetchPrices(ctx, item, itemProvider)

	if btcPrice <= 0 || itemPrice <= 0 {
		return nil, fmt.Errorf("%w: non-positive price (btc=%f, item=%f)", ErrComputation, btcPrice, itemPrice)
	}

	var result *model.ConversionResult
	if request.Direction == model.BTCToItem {
		result = convertBTCToItem(*request.BTCAmount, btcPrice, itemPrice, request.Sats)
	} else {
		result = convertItemToBTC(*request.Quantity, btcPrice, itemPrice, request.Sats)
	}

	s.log.Info("Conversion completed",
		"direction", request.Direction,
		"item", item.Key,
		"sats", request.Sats,
		"btc_price", result.BTCPrice,
		"usd_total", result.USDTotal,
	)

	return result, nil
}

// fetchPrices resolves the BTC price and the item price concurrently.
// Neither path fails: the cache degrades to stale/default, the resolver
// maps provider errors to the item fallback, and a panicking provider is
// caught here and treated the same way.
func (s *ConverterService) fetchPrices(ctx context.Context, item model.Item, itemProvider ports.PriceProvider) (float64, float64) {
	btcCh := make(chan float64, 1)
	itemCh := make(chan float64, 1)

	go func() {
		btcCh <- s.btc.Price(ctx)
	}()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("Item price fetch panicked, using fallback",
					"item", item.Key,
					"panic", rec,
				)
				itemCh <- item.FallbackUSD
			}
		}()
		itemCh <- s.resolver.ResolveUSD(ctx, itemProvider, item.FallbackUSD)
	}()

	return <-btcCh, <-itemCh
}

// Historical passes a date range through to the statistics provider and
// expresses each observation as the amount of BTC the item cost. The BTC
// side uses the current price for every date; true historical BTC prices
// are not fetched. Unlike Convert there is no fallback: upstream failure
// surfaces to the caller.
func (s *ConverterService) Historical(ctx context.Context, request model.HistoricalRequest) (*model.HistoricalSeries, error) {
	item, _, found := s.catalog.Lookup(request.ItemKey)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, request.ItemKey)
	}

	if !item.Historical {
		return nil, fmt.Errorf("%w: %q", ErrHistoricalUnsupported, request.ItemKey)
	}

	if item.SeriesID == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoSeriesConfigured, request.ItemKey)
	}

	if !request.FromDate.Before(request.ToDate) {
		return nil, ErrInvalidDateRange
	}

	if request.ToDate.Sub(request.FromDate) > maxHistoricalRange {
		return nil, ErrDateRangeTooWide
	}

	btcPrice := s.btc.Price(ctx)
	if btcPrice <= 0 {
		return nil, fmt.Errorf("%w: non-positive BTC price", ErrComputation)
	}

	observations, err := s.series.FetchObservations(ctx, item.SeriesID, request.FromDate, request.ToDate)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	btcPriceDec := decimal.NewFromFloat(btcPrice)
	series := &model.HistoricalSeries{
		Dates:     make([]string, 0, len(observations)),
		BTCPrices: make([]float64, 0, len(observations)),
	}

	for _, obs := range observations {
		equivalent := decimal.NewFromFloat(obs.Value).Div(btcPriceDec)
		series.Dates = append(series.Dates, obs.Date)
		series.BTCPrices = append(series.BTCPrices, roundTo(equivalent, 8))
	}

	return series, nil
}

// isValidAmount accepts only finite, strictly positive values. ParseFloat
// admits "Inf" and "NaN", and neither may reach the decimal engine.
func isValidAmount(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 1)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
