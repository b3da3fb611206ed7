package model

import "time"

type Direction string

const (
	BTCToItem Direction = "btc_to_item"
	ItemToBTC Direction = "item_to_btc"
)

func (d Direction) IsValid() bool {
	return d == BTCToItem || d == ItemToBTC
}

func (d Direction) String() string {
	return string(d)
}

// ConversionRequest carries one conversion. BTCAmount is set for
// btc_to_item, Quantity for item_to_btc; a nil pointer means the
// parameter was absent, which is distinct from zero.
type ConversionRequest struct {
	Direction Direction `json:"direction"`
	ItemKey   string    `json:"item"`
	BTCAmount *float64  `json:"btc_amount,omitempty"`
	Quantity  *float64  `json:"quantity,omitempty"`
	Sats      bool      `json:"sats"`
}

// ConversionResult mirrors the wire response. Quantity holds the item
// quantity for btc_to_item and the BTC (or satoshi) amount for
// item_to_btc; all fields are already rounded.
type ConversionResult struct {
	Quantity float64 `json:"quantity"`
	USDItem  float64 `json:"usd_item"`
	USDTotal float64 `json:"usd_total"`
	BTCPrice float64 `json:"btc_price"`
}

// PriceQuote is a USD value with its acquisition time.
type PriceQuote struct {
	USD       float64
	FetchedAt time.Time
}

// Observation is one dated value from an external statistics series.
type Observation struct {
	Date  string
	Value float64
}

type HistoricalRequest struct {
	ItemKey  string
	FromDate time.Time
	ToDate   time.Time
}

// HistoricalSeries pairs observation dates with the BTC amount the item
// cost at each date.
type HistoricalSeries struct {
	Dates     []string  `json:"dates"`
	BTCPrices []float64 `json:"btc_prices"`
}
