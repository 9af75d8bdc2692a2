package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/marketplace"
	"github.com/flipperzap/internal/models"
	"github.com/flipperzap/internal/storage"
	"github.com/flipperzap/internal/types"
)

// ListingService creates listings from completed scans and optionally
// publishes them to a marketplace.
type ListingService struct {
	store       *storage.MemoryStore
	marketplace marketplace.Service
	notifier    Notifier
	logger      *logging.Logger
}

// NewListingService wires the listing operations
func NewListingService(store *storage.MemoryStore, mp marketplace.Service, notifier Notifier, logger *logging.Logger) *ListingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ListingService{
		store:       store,
		marketplace: mp,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateListingInput is the payload for creating a listing
type CreateListingInput struct {
	ScanID      string          `json:"scanId"`
	Marketplace string          `json:"marketplace"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	AutoList    bool            `json:"autoList"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

func (in *CreateListingInput) validate() error {
	if in.ScanID == "" {
		return errors.NewInvalidInputError("scanId is required")
	}
	if in.Title == "" {
		return errors.NewInvalidInputError("title is required")
	}
	if in.Price.IsNegative() {
		return errors.NewInvalidInputError("price must not be negative")
	}

	mp := types.Marketplace(in.Marketplace)
	for _, supported := range types.SupportedMarketplaces() {
		if mp == supported {
			return nil
		}
	}
	return errors.NewUnsupportedMarketplaceError(in.Marketplace)
}

// Create stores the listing as a draft and, when autoList is set, publishes
// it to the marketplace and activates it. A publish failure is logged and
// leaves the listing in draft; the create itself still succeeds.
func (s *ListingService) Create(ctx context.Context, userID string, input CreateListingInput) (*models.Listing, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	scan, ok := s.store.GetScan(ctx, input.ScanID)
	if !ok {
		return nil, errors.NewScanNotFoundError(input.ScanID)
	}

	mp := types.Marketplace(input.Marketplace)
	listing := s.store.CreateListing(ctx, storage.CreateListingParams{
		ScanID:      scan.ID,
		Marketplace: mp,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Status:      types.ListingStatusDraft,
	})

	if !input.AutoList {
		return listing, nil
	}

	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = scan.ImageURL
	}

	description := ""
	if input.Description != nil {
		description = *input.Description
	}

	published, err := s.marketplace.CreateListing(ctx, mp, marketplace.ListingRequest{
		Title:       input.Title,
		Description: description,
		Price:       input.Price,
		ImageURL:    imageURL,
	})
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"listing_id":  listing.ID,
			"marketplace": string(mp),
		}).Error("Marketplace listing failed")
		return listing, nil
	}

	active := types.ListingStatusActive
	now := time.Now().UTC()
	updated, ok := s.store.UpdateListing(ctx, listing.ID, storage.ListingUpdate{
		MarketplaceListingID: &published.ID,
		Status:               &active,
		ListedAt:             &now,
	})
	if !ok {
		return listing, nil
	}

	s.notifier.SendListingUpdate(userID, listing.ID, "listed", published)
	return updated, nil
}

// Get returns a single listing
func (s *ListingService) Get(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, ok := s.store.GetListing(ctx, listingID)
	if !ok {
		return nil, errors.NewListingNotFoundError(listingID)
	}
	return listing, nil
}

// ListByUser returns the user's listings across all their scans
func (s *ListingService) ListByUser(ctx context.Context, userID string) []*models.Listing {
	return s.store.GetListingsByUser(ctx, userID)
}

// ListByScan returns the listings created from one scan
func (s *ListingService) ListByScan(ctx context.Context, scanID string) []*models.Listing {
	return s.store.GetListingsByScan(ctx, scanID)
}
