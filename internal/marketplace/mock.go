package marketplace

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/types"
)

// MockService simulates marketplace APIs with generated listing ids
type MockService struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockService creates a mock marketplace with the given simulated API delay
func NewMockService(delay time.Duration) *MockService {
	return &MockService{
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *MockService) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func mockListingURL(marketplace types.Marketplace, id string) string {
	return fmt.Sprintf("https://%s.com/item/%s", marketplace, id)
}

// CreateListing publishes a simulated listing. Ids follow the
// mock_<marketplace>_<unix-ms> pattern.
func (s *MockService) CreateListing(ctx context.Context, marketplace types.Marketplace, req ListingRequest) (*ListingResult, error) {
	if err := s.sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("mock_%s_%d", marketplace, time.Now().UnixMilli())
	url := mockListingURL(marketplace, id)

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"marketplace": marketplace,
		"listing_id":  id,
		"title":       req.Title,
		"price":       req.Price.String(),
		"url":         url,
	}).Info("Mock marketplace listing created")

	return &ListingResult{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		URL:         url,
	}, nil
}

// UpdateListing applies the given updates to a simulated listing
func (s *MockService) UpdateListing(ctx context.Context, marketplace types.Marketplace, listingID string, updates ListingUpdate) (*ListingResult, error) {
	if err := s.sleep(ctx, s.delay*2/3); err != nil {
		return nil, err
	}

	result := &ListingResult{
		ID:    listingID,
		Title: "Updated Listing",
		Price: decimal.Zero,
		URL:   mockListingURL(marketplace, listingID),
	}
	if updates.Title != nil {
		result.Title = *updates.Title
	}
	if updates.Description != nil {
		result.Description = *updates.Description
	}
	if updates.Price != nil {
		result.Price = *updates.Price
	}
	if updates.ImageURL != nil {
		result.ImageURL = *updates.ImageURL
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"marketplace": marketplace,
		"listing_id":  listingID,
	}).Info("Mock marketplace listing updated")

	return result, nil
}

// DeleteListing removes a simulated listing
func (s *MockService) DeleteListing(ctx context.Context, marketplace types.Marketplace, listingID string) error {
	if err := s.sleep(ctx, s.delay/3); err != nil {
		return err
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"marketplace": marketplace,
		"listing_id":  listingID,
	}).Info("Mock marketplace listing deleted")

	return nil
}

// GetListingStatus returns a random plausible listing status
func (s *MockService) GetListingStatus(ctx context.Context, marketplace types.Marketplace, listingID string) (string, error) {
	statuses := []string{"active", "sold", "pending", "cancelled"}

	s.mu.Lock()
	status := statuses[s.rng.Intn(len(statuses))]
	s.mu.Unlock()

	return status, nil
}
