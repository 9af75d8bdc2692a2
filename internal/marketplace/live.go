package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/types"
)

// LiveService dispatches listing operations to real marketplace APIs.
// Only credential validation and dispatch are in place; the per-marketplace
// API calls land when the seller accounts are provisioned.
type LiveService struct {
	ebayClientID string
	amazonKey    string
	httpClient   *http.Client
}

// NewLiveService creates a live marketplace dispatcher
func NewLiveService(ebayClientID, amazonKey string) *LiveService {
	return &LiveService{
		ebayClientID: ebayClientID,
		amazonKey:    amazonKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateListing dispatches to the marketplace-specific integration
func (s *LiveService) CreateListing(ctx context.Context, marketplace types.Marketplace, req ListingRequest) (*ListingResult, error) {
	switch marketplace {
	case types.MarketplaceEbay:
		if s.ebayClientID == "" {
			return nil, errors.NewProviderError("ebay", fmt.Errorf("eBay client id not configured"))
		}
		return nil, errors.NewProviderError("ebay", fmt.Errorf("eBay integration not yet implemented"))
	case types.MarketplaceAmazon:
		if s.amazonKey == "" {
			return nil, errors.NewProviderError("amazon", fmt.Errorf("Amazon access key not configured"))
		}
		return nil, errors.NewProviderError("amazon", fmt.Errorf("Amazon integration not yet implemented"))
	case types.MarketplaceFacebook:
		return nil, errors.NewProviderError("facebook", fmt.Errorf("Facebook Marketplace integration not yet implemented"))
	case types.MarketplaceCraigslist:
		return nil, errors.NewProviderError("craigslist", fmt.Errorf("Craigslist integration not yet implemented"))
	default:
		return nil, errors.NewUnsupportedMarketplaceError(string(marketplace))
	}
}

// UpdateListing is pending live integrations
func (s *LiveService) UpdateListing(ctx context.Context, marketplace types.Marketplace, listingID string, updates ListingUpdate) (*ListingResult, error) {
	return nil, errors.NewProviderError(string(marketplace), fmt.Errorf("live listing update not yet implemented"))
}

// DeleteListing is pending live integrations
func (s *LiveService) DeleteListing(ctx context.Context, marketplace types.Marketplace, listingID string) error {
	return errors.NewProviderError(string(marketplace), fmt.Errorf("live listing delete not yet implemented"))
}

// GetListingStatus is pending live integrations
func (s *LiveService) GetListingStatus(ctx context.Context, marketplace types.Marketplace, listingID string) (string, error) {
	return "", errors.NewProviderError(string(marketplace), fmt.Errorf("live listing status check not yet implemented"))
}
