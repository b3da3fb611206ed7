package model

import (
	"fmt"
	"strings"
)

type Category string

const (
	Energy         Category = "Energy"
	Commodities    Category = "Commodities"
	Food           Category = "Food"
	Housing        Category = "Housing"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
)

// CategoryOrder fixes the order categories appear in listings.
var CategoryOrder = []Category{Energy, Commodities, Food, Housing, Transportation, Entertainment}

// Item is one convertible good. Built once at startup, never mutated.
type Item struct {
	Key         string
	Category    Category
	Unit        string
	FallbackUSD float64
	Historical  bool
	SeriesID    string
}

// DisplayName derives a human label from the key: separators become
// spaces, words are title-cased, and the unit is appended.
func (i Item) DisplayName() string {
	words := strings.Split(i.Key, "_")
	for idx, w := range words {
		if w == "" {
			continue
		}
		words[idx] = strings.ToUpper(w[:1]) + w[1:]
	}
	return fmt.Sprintf("%s (%s)", strings.Join(words, " "), i.Unit)
}

// ItemDescriptor is the listing shape exposed to clients.
type ItemDescriptor struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	Historical bool   `json:"historical_support"`
}
