package models

import (
	"encoding/json"
	"time"

	"github.com/flipperzap/internal/types"
	"github.com/shopspring/decimal"
)

// Scan represents one user-submitted image and its analysis lifecycle record
type Scan struct {
	ID                string           `json:"id" db:"id"`
	UserID            string           `json:"userId" db:"user_id"`
	ToyID             *string          `json:"toyId,omitempty" db:"toy_id"`
	ImageURL          string           `json:"imageUrl" db:"image_url"`
	Status            types.ScanStatus `json:"status" db:"status"`
	AIAnalysis        json.RawMessage  `json:"aiAnalysis,omitempty" db:"ai_analysis"`
	EstimatedPriceMin *decimal.Decimal `json:"estimatedPriceMin,omitempty" db:"estimated_price_min"`
	EstimatedPriceMax *decimal.Decimal `json:"estimatedPriceMax,omitempty" db:"estimated_price_max"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" db:"updated_at"`
}
