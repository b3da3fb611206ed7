package service

import (
	"btc-goods-service/internal/domain/model"

	"github.com/shopspring/decimal"
)

// satsPerBTC is the satoshi divisor: 1 BTC = 100,000,000 sats.
var satsPerBTC = decimal.NewFromInt(100_000_000)

// Inputs are lifted into decimals before any multiply/divide so chained
// operations do not compound float rounding error; floats reappear only at
// the final per-field rounding step.

func convertBTCToItem(btcAmount, btcPrice, itemPrice float64, sats bool) *model.ConversionResult {
	amount := decimal.NewFromFloat(btcAmount)
	if sats {
		amount = amount.Div(satsPerBTC)
	}

	btcPriceDec := decimal.NewFromFloat(btcPrice)
	itemPriceDec := decimal.NewFromFloat(itemPrice)

	usdTotal := amount.Mul(btcPriceDec)
	quantity := usdTotal.Div(itemPriceDec)

	return &model.ConversionResult{
		Quantity: roundTo(quantity, 6),
		USDItem:  roundTo(itemPriceDec, 2),
		USDTotal: roundTo(usdTotal, 2),
		BTCPrice: roundTo(btcPriceDec, 2),
	}
}

func convertItemToBTC(quantity, btcPrice, itemPrice float64, sats bool) *model.ConversionResult {
	quantityDec := decimal.NewFromFloat(quantity)
	btcPriceDec := decimal.NewFromFloat(btcPrice)
	itemPriceDec := decimal.NewFromFloat(itemPrice)

	usdTotal := quantityDec.Mul(itemPriceDec)
	btcNeeded := usdTotal.Div(btcPriceDec)

	var btcOut float64
	if sats {
		// Satoshis are indivisible: no fractional part survives.
		btcOut = roundTo(btcNeeded.Mul(satsPerBTC), 0)
	} else {
		btcOut = roundTo(btcNeeded, 8)
	}

	return &model.ConversionResult{
		Quantity: btcOut,
		USDItem:  roundTo(itemPriceDec, 2),
		USDTotal: roundTo(usdTotal, 2),
		BTCPrice: roundTo(btcPriceDec, 2),
	}
}

func roundTo(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}
