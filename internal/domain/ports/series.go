package ports

import (
	"context"
	"time"

	"btc-goods-service/internal/domain/model"
)

// SeriesRepository fetches a dated observation range from an external
// statistics provider. Unlike PriceProvider there is no fallback: errors
// surface to the caller.
type SeriesRepository interface {
	FetchObservations(ctx context.Context, seriesID string, from, to time.Time) ([]model.Observation, error)
}
