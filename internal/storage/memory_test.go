package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/flipperzap/internal/types"
)

func TestCreateScanAssignsIdentityAndTimestamps(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	scan := store.CreateScan(ctx, CreateScanParams{
		UserID:   "user-1",
		ImageURL: "/uploads/a.jpg",
		Status:   types.ScanStatusProcessing,
	})

	if scan.ID == "" {
		t.Fatal("expected generated scan id")
	}
	if scan.CreatedAt.IsZero() || scan.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
	if scan.Status != types.ScanStatusProcessing {
		t.Errorf("Status = %s, want processing", scan.Status)
	}

	got, ok := store.GetScan(ctx, scan.ID)
	if !ok {
		t.Fatal("expected scan to be retrievable")
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", got.UserID)
	}
}

func TestGetScanUnknownID(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.GetScan(context.Background(), "no-such-scan"); ok {
		t.Fatal("expected miss for unknown scan id")
	}
}

func TestUpdateScanMergesPartialFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	scan := store.CreateScan(ctx, CreateScanParams{
		UserID:   "user-1",
		ImageURL: "/uploads/a.jpg",
		Status:   types.ScanStatusProcessing,
	})

	completed := types.ScanStatusCompleted
	minPrice := decimal.NewFromInt(45)
	maxPrice := decimal.NewFromInt(85)

	updated, ok := store.UpdateScan(ctx, scan.ID, ScanUpdate{
		Status:            &completed,
		AIAnalysis:        []byte(`{"toyName":"Vintage Barbie Doll"}`),
		EstimatedPriceMin: &minPrice,
		EstimatedPriceMax: &maxPrice,
	})
	if !ok {
		t.Fatal("expected update to find the scan")
	}

	if updated.Status != types.ScanStatusCompleted {
		t.Errorf("Status = %s, want completed", updated.Status)
	}
	if updated.ImageURL != "/uploads/a.jpg" {
		t.Errorf("ImageURL lost during merge: %s", updated.ImageURL)
	}
	if updated.EstimatedPriceMin == nil || !updated.EstimatedPriceMin.Equal(minPrice) {
		t.Errorf("EstimatedPriceMin = %v, want %v", updated.EstimatedPriceMin, minPrice)
	}
	if !updated.UpdatedAt.After(scan.UpdatedAt) && !updated.UpdatedAt.Equal(scan.UpdatedAt) {
		t.Error("expected updatedAt to be refreshed")
	}
}

func TestUpdateScanUnknownIDSignalsMiss(t *testing.T) {
	store := NewMemoryStore()

	failed := types.ScanStatusFailed
	if _, ok := store.UpdateScan(context.Background(), "missing", ScanUpdate{Status: &failed}); ok {
		t.Fatal("expected miss for unknown scan id")
	}
}

func TestGetScansByUserNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		scan := store.CreateScan(ctx, CreateScanParams{
			UserID:   "user-1",
			ImageURL: "/uploads/a.jpg",
			Status:   types.ScanStatusProcessing,
		})
		ids = append(ids, scan.ID)
	}
	// Another user's scan must not appear
	store.CreateScan(ctx, CreateScanParams{UserID: "user-2", ImageURL: "/uploads/b.jpg", Status: types.ScanStatusProcessing})

	scans := store.GetScansByUser(ctx, "user-1")
	if len(scans) != 5 {
		t.Fatalf("expected 5 scans, got %d", len(scans))
	}

	for i := 1; i < len(scans); i++ {
		if scans[i].CreatedAt.After(scans[i-1].CreatedAt) {
			t.Fatalf("scans not in descending creation order at index %d", i)
		}
	}
}

func TestCreateListingAndQueryByScan(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	scan := store.CreateScan(ctx, CreateScanParams{UserID: "user-1", ImageURL: "/uploads/a.jpg", Status: types.ScanStatusCompleted})

	listing := store.CreateListing(ctx, CreateListingParams{
		ScanID:      scan.ID,
		Marketplace: types.MarketplaceEbay,
		Title:       "Vintage Barbie Doll",
		Price:       decimal.RequireFromString("65.00"),
		Status:      types.ListingStatusDraft,
	})

	if listing.Status != types.ListingStatusDraft {
		t.Errorf("Status = %s, want draft", listing.Status)
	}

	byScan := store.GetListingsByScan(ctx, scan.ID)
	if len(byScan) != 1 || byScan[0].ID != listing.ID {
		t.Fatalf("expected the created listing for scan %s", scan.ID)
	}

	byUser := store.GetListingsByUser(ctx, "user-1")
	if len(byUser) != 1 {
		t.Fatalf("expected 1 listing via user scans, got %d", len(byUser))
	}
}

func TestUpdateListingActivation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	scan := store.CreateScan(ctx, CreateScanParams{UserID: "user-1", ImageURL: "/uploads/a.jpg", Status: types.ScanStatusCompleted})
	listing := store.CreateListing(ctx, CreateListingParams{
		ScanID:      scan.ID,
		Marketplace: types.MarketplaceEbay,
		Title:       "Hot Wheels Cars Set",
		Price:       decimal.RequireFromString("25.00"),
		Status:      types.ListingStatusDraft,
	})

	active := types.ListingStatusActive
	externalID := "mock_ebay_1700000000000"
	listedAt := listing.CreatedAt.Add(1)

	updated, ok := store.UpdateListing(ctx, listing.ID, ListingUpdate{
		MarketplaceListingID: &externalID,
		Status:               &active,
		ListedAt:             &listedAt,
	})
	if !ok {
		t.Fatal("expected update to find the listing")
	}
	if updated.Status != types.ListingStatusActive {
		t.Errorf("Status = %s, want active", updated.Status)
	}
	if updated.MarketplaceListingID == nil || *updated.MarketplaceListingID != externalID {
		t.Errorf("MarketplaceListingID = %v, want %s", updated.MarketplaceListingID, externalID)
	}
	if updated.ListedAt == nil {
		t.Error("expected listedAt to be set")
	}
}

func TestUpsertMarketplaceConnectionIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	token1 := "token-1"
	token2 := "token-2"

	for i, token := range []*string{&token1, &token2, &token2} {
		conn := store.UpsertMarketplaceConnection(ctx, UpsertConnectionParams{
			UserID:      "user-1",
			Marketplace: types.MarketplaceEbay,
			IsConnected: true,
			AccessToken: token,
		})
		if !conn.IsConnected {
			t.Fatalf("upsert %d: expected connected", i)
		}
	}

	conns := store.GetMarketplaceConnections(ctx, "user-1")
	if len(conns) != 1 {
		t.Fatalf("expected exactly one connection row, got %d", len(conns))
	}
	if conns[0].AccessToken == nil || *conns[0].AccessToken != token2 {
		t.Errorf("expected latest token, got %v", conns[0].AccessToken)
	}

	// Distinct marketplace creates its own row
	store.UpsertMarketplaceConnection(ctx, UpsertConnectionParams{
		UserID:      "user-1",
		Marketplace: types.MarketplaceAmazon,
		IsConnected: true,
	})
	if got := len(store.GetMarketplaceConnections(ctx, "user-1")); got != 2 {
		t.Fatalf("expected 2 connection rows, got %d", got)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	scan := store.CreateScan(ctx, CreateScanParams{UserID: "user-1", ImageURL: "/uploads/a.jpg", Status: types.ScanStatusProcessing})
	scan.Status = types.ScanStatusFailed

	got, _ := store.GetScan(ctx, scan.ID)
	if got.Status != types.ScanStatusProcessing {
		t.Error("mutating a returned record must not affect the store")
	}
}
