package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipperzap/internal/marketplace"
	"github.com/flipperzap/internal/storage"
	"github.com/flipperzap/internal/types"
)

func seedCompletedScan(t *testing.T, store *storage.MemoryStore) string {
	t.Helper()

	scan := store.CreateScan(context.Background(), storage.CreateScanParams{
		UserID:   "user-1",
		ImageURL: "/uploads/toy.jpg",
		Status:   types.ScanStatusCompleted,
	})
	return scan.ID
}

func TestCreateListingDraft(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewListingService(store, marketplace.NewMockService(0), nil, newTestLogger())
	scanID := seedCompletedScan(t, store)

	listing, err := svc.Create(context.Background(), "user-1", CreateListingInput{
		ScanID:      scanID,
		Marketplace: "ebay",
		Title:       "Vintage Barbie Doll",
		Price:       decimal.RequireFromString("65.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, types.ListingStatusDraft, listing.Status)
	assert.Nil(t, listing.MarketplaceListingID)
	assert.Nil(t, listing.ListedAt)
}

func TestCreateListingAutoListActivates(t *testing.T) {
	store := storage.NewMemoryStore()
	notifier := &recordingNotifier{}
	svc := NewListingService(store, marketplace.NewMockService(0), notifier, newTestLogger())
	scanID := seedCompletedScan(t, store)

	listing, err := svc.Create(context.Background(), "user-1", CreateListingInput{
		ScanID:      scanID,
		Marketplace: "ebay",
		Title:       "Vintage Barbie Doll",
		Price:       decimal.RequireFromString("65.00"),
		AutoList:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, types.ListingStatusActive, listing.Status)
	require.NotNil(t, listing.MarketplaceListingID)
	assert.Regexp(t, `^mock_ebay_\d+$`, *listing.MarketplaceListingID)
	require.NotNil(t, listing.ListedAt)

	require.Len(t, notifier.listings, 1)
	assert.Equal(t, listing.ID+":listed", notifier.listings[0])
}

func TestCreateListingAutoListFailureStaysDraft(t *testing.T) {
	store := storage.NewMemoryStore()
	notifier := &recordingNotifier{}
	// Live service without credentials rejects every publish
	svc := NewListingService(store, marketplace.NewLiveService("", ""), notifier, newTestLogger())
	scanID := seedCompletedScan(t, store)

	listing, err := svc.Create(context.Background(), "user-1", CreateListingInput{
		ScanID:      scanID,
		Marketplace: "ebay",
		Title:       "Vintage Barbie Doll",
		Price:       decimal.RequireFromString("65.00"),
		AutoList:    true,
	})
	require.NoError(t, err, "a publish failure must not fail the create")

	assert.Equal(t, types.ListingStatusDraft, listing.Status)
	assert.Nil(t, listing.MarketplaceListingID)
	assert.Empty(t, notifier.listings)
}

func TestCreateListingValidation(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewListingService(store, marketplace.NewMockService(0), nil, newTestLogger())
	scanID := seedCompletedScan(t, store)

	tests := []struct {
		name  string
		input CreateListingInput
	}{
		{"missing scan id", CreateListingInput{Marketplace: "ebay", Title: "x", Price: decimal.NewFromInt(1)}},
		{"missing title", CreateListingInput{ScanID: scanID, Marketplace: "ebay", Price: decimal.NewFromInt(1)}},
		{"negative price", CreateListingInput{ScanID: scanID, Marketplace: "ebay", Title: "x", Price: decimal.NewFromInt(-1)}},
		{"unsupported marketplace", CreateListingInput{ScanID: scanID, Marketplace: "etsy", Title: "x", Price: decimal.NewFromInt(1)}},
		{"unknown scan", CreateListingInput{ScanID: "missing", Marketplace: "ebay", Title: "x", Price: decimal.NewFromInt(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tt.input)
			assert.Error(t, err)
		})
	}
}

func TestListingsByScanAndUser(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewListingService(store, marketplace.NewMockService(0), nil, newTestLogger())
	scanID := seedCompletedScan(t, store)

	for _, mp := range []string{"ebay", "amazon"} {
		_, err := svc.Create(context.Background(), "user-1", CreateListingInput{
			ScanID:      scanID,
			Marketplace: mp,
			Title:       "Hot Wheels Cars Set",
			Price:       decimal.NewFromInt(25),
		})
		require.NoError(t, err)
	}

	assert.Len(t, svc.ListByScan(context.Background(), scanID), 2)
	assert.Len(t, svc.ListByUser(context.Background(), "user-1"), 2)
	assert.Empty(t, svc.ListByUser(context.Background(), "user-2"))
}
