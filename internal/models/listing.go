package models

import (
	"time"

	"github.com/flipperzap/internal/types"
	"github.com/shopspring/decimal"
)

// Listing represents a scan's toy offered on a specific marketplace
type Listing struct {
	ID                   string              `json:"id" db:"id"`
	ScanID               string              `json:"scanId" db:"scan_id"`
	Marketplace          types.Marketplace   `json:"marketplace" db:"marketplace"`
	MarketplaceListingID *string             `json:"marketplaceListingId,omitempty" db:"marketplace_listing_id"`
	Title                string              `json:"title" db:"title"`
	Description          *string             `json:"description,omitempty" db:"description"`
	Price                decimal.Decimal     `json:"price" db:"price"`
	Status               types.ListingStatus `json:"status" db:"status"`
	ListedAt             *time.Time          `json:"listedAt,omitempty" db:"listed_at"`
	CreatedAt            time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time           `json:"updatedAt" db:"updated_at"`
}
