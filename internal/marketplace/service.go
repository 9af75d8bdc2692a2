// Package marketplace provides listing publication services for the
// supported resale marketplaces.
package marketplace

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/flipperzap/internal/config"
	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/types"
)

// ListingRequest describes a listing to publish on a marketplace
type ListingRequest struct {
	Title       string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

// ListingResult is a published listing as the marketplace reports it
type ListingResult struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	URL         string
}

// ListingUpdate carries the fields an update may change
type ListingUpdate struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
}

// Service publishes and manages listings on external marketplaces
type Service interface {
	CreateListing(ctx context.Context, marketplace types.Marketplace, req ListingRequest) (*ListingResult, error)
	UpdateListing(ctx context.Context, marketplace types.Marketplace, listingID string, updates ListingUpdate) (*ListingResult, error)
	DeleteListing(ctx context.Context, marketplace types.Marketplace, listingID string) error
	GetListingStatus(ctx context.Context, marketplace types.Marketplace, listingID string) (string, error)
}

// NewService returns the marketplace service matching the configuration: the
// mock unless marketplace credentials are configured and mock mode is off.
func NewService(cfg *config.MarketplaceConfig) Service {
	if cfg.UseMock || (cfg.EbayClientID == "" && cfg.AmazonKey == "") {
		logging.GetGlobalLogger().Info("Using mock marketplace service")
		return NewMockService(cfg.MockDelay)
	}

	logging.GetGlobalLogger().Info("Using live marketplace service")
	return NewLiveService(cfg.EbayClientID, cfg.AmazonKey)
}
