package ports

import (
	"context"

	"btc-goods-service/internal/domain/model"
)

type ConverterService interface {
	ListItems() map[model.Category][]model.ItemDescriptor
	Convert(ctx context.Context, request model.ConversionRequest) (*model.ConversionResult, error)
	Historical(ctx context.Context, request model.HistoricalRequest) (*model.HistoricalSeries, error)
}
