package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// PricingService serves demo pricing data: canned sale history and a
// condition-scaled estimate.
type PricingService struct{}

// NewPricingService creates the pricing service
func NewPricingService() *PricingService {
	return &PricingService{}
}

// PricePoint is one historical sale of a comparable item
type PricePoint struct {
	Date        string          `json:"date"`
	Price       decimal.Decimal `json:"price"`
	Condition   int             `json:"condition"`
	Marketplace string          `json:"marketplace"`
}

// History returns recent comparable sales for the named item
func (s *PricingService) History(itemName string) []PricePoint {
	return []PricePoint{
		{Date: "2025-01-01", Price: decimal.RequireFromString("45.99"), Condition: 8, Marketplace: "eBay"},
		{Date: "2024-12-15", Price: decimal.RequireFromString("42.50"), Condition: 7, Marketplace: "Mercari"},
		{Date: "2024-12-01", Price: decimal.RequireFromString("38.00"), Condition: 6, Marketplace: "Facebook"},
	}
}

// Estimate is a price range suggestion for an item at a given condition
type Estimate struct {
	Low        int     `json:"low"`
	High       int     `json:"high"`
	Confidence float64 `json:"confidence"`
	ItemName   string  `json:"item_name"`
	Condition  int     `json:"condition"`
}

const (
	estimateBasePrice  = 40
	estimateConfidence = 0.82
	defaultCondition   = 7
)

// Estimate scales the base price by the 1-10 condition grade. A missing or
// non-positive condition falls back to the default grade.
func (s *PricingService) Estimate(itemName string, condition int) Estimate {
	grade := condition
	if grade <= 0 {
		grade = defaultCondition
	}

	multiplier := float64(grade) / 10
	return Estimate{
		Low:        int(math.Round(estimateBasePrice * multiplier * 0.8)),
		High:       int(math.Round(estimateBasePrice * multiplier * 1.3)),
		Confidence: estimateConfidence,
		ItemName:   itemName,
		Condition:  condition,
	}
}
