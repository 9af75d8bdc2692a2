// Package storage provides the in-memory entity store, the optional Redis
// scan cache, and the upload file store for the FlipperZap service.
package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flipperzap/internal/models"
	"github.com/flipperzap/internal/types"
)

// MemoryStore keeps all entities in process-local maps guarded by a single
// RWMutex. No persistence, no indexes beyond linear scans.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]models.User
	toys        map[string]models.Toy
	scans       map[string]models.Scan
	listings    map[string]models.Listing
	connections map[string]models.MarketplaceConnection
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]models.User),
		toys:        make(map[string]models.Toy),
		scans:       make(map[string]models.Scan),
		listings:    make(map[string]models.Listing),
		connections: make(map[string]models.MarketplaceConnection),
	}
}

// CreateUserParams holds the caller-supplied fields for a new user
type CreateUserParams struct {
	Username string
	Email    string
	Password string
}

// CreateUser assigns an id and creation timestamp and stores the user
func (s *MemoryStore) CreateUser(_ context.Context, params CreateUserParams) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := models.User{
		ID:        uuid.NewString(),
		Username:  params.Username,
		Email:     params.Email,
		Password:  params.Password,
		CreatedAt: time.Now().UTC(),
	}
	s.users[user.ID] = user

	out := user
	return &out
}

// GetUser returns the user with the given id, or false when absent
func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, false
	}
	out := user
	return &out, true
}

// GetUserByUsername returns the first user with a matching username
func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			out := user
			return &out, true
		}
	}
	return nil, false
}

// CreateToyParams holds the caller-supplied fields for a new toy
type CreateToyParams struct {
	Name        string
	Brand       *string
	Category    *string
	Description *string
	Condition   types.ToyCondition
	ImageURL    string
	AIAnalysis  json.RawMessage
}

// CreateToy assigns an id and creation timestamp and stores the toy
func (s *MemoryStore) CreateToy(_ context.Context, params CreateToyParams) *models.Toy {
	s.mu.Lock()
	defer s.mu.Unlock()

	toy := models.Toy{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Brand:       params.Brand,
		Category:    params.Category,
		Description: params.Description,
		Condition:   params.Condition,
		ImageURL:    params.ImageURL,
		AIAnalysis:  params.AIAnalysis,
		CreatedAt:   time.Now().UTC(),
	}
	s.toys[toy.ID] = toy

	out := toy
	return &out
}

// GetToy returns the toy with the given id, or false when absent
func (s *MemoryStore) GetToy(_ context.Context, id string) (*models.Toy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	toy, ok := s.toys[id]
	if !ok {
		return nil, false
	}
	out := toy
	return &out, true
}

// CreateScanParams holds the caller-supplied fields for a new scan
type CreateScanParams struct {
	UserID   string
	ImageURL string
	Status   types.ScanStatus
}

// CreateScan assigns an id and timestamps and stores the scan
func (s *MemoryStore) CreateScan(_ context.Context, params CreateScanParams) *models.Scan {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	scan := models.Scan{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		ImageURL:  params.ImageURL,
		Status:    params.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.scans[scan.ID] = scan

	out := scan
	return &out
}

// GetScan returns the scan with the given id, or false when absent
func (s *MemoryStore) GetScan(_ context.Context, id string) (*models.Scan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scan, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	out := scan
	return &out, true
}

// GetScansByUser returns the user's scans, newest first. Creation-time ties
// break on id so ordering stays stable within a process run.
func (s *MemoryStore) GetScansByUser(_ context.Context, userID string) []*models.Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scans []*models.Scan
	for _, scan := range s.scans {
		if scan.UserID == userID {
			out := scan
			scans = append(scans, &out)
		}
	}

	sort.Slice(scans, func(i, j int) bool {
		if !scans[i].CreatedAt.Equal(scans[j].CreatedAt) {
			return scans[i].CreatedAt.After(scans[j].CreatedAt)
		}
		return scans[i].ID > scans[j].ID
	})

	return scans
}

// ScanUpdate holds the partial fields merged into a scan on update
type ScanUpdate struct {
	Status            *types.ScanStatus
	ToyID             *string
	AIAnalysis        json.RawMessage
	EstimatedPriceMin *decimal.Decimal
	EstimatedPriceMax *decimal.Decimal
}

// UpdateScan merges the partial update, refreshes updatedAt, and returns the
// updated record. Returns (nil, false) when the id is absent.
func (s *MemoryStore) UpdateScan(_ context.Context, id string, update ScanUpdate) (*models.Scan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scan, ok := s.scans[id]
	if !ok {
		return nil, false
	}

	if update.Status != nil {
		scan.Status = *update.Status
	}
	if update.ToyID != nil {
		scan.ToyID = update.ToyID
	}
	if update.AIAnalysis != nil {
		scan.AIAnalysis = update.AIAnalysis
	}
	if update.EstimatedPriceMin != nil {
		scan.EstimatedPriceMin = update.EstimatedPriceMin
	}
	if update.EstimatedPriceMax != nil {
		scan.EstimatedPriceMax = update.EstimatedPriceMax
	}
	scan.UpdatedAt = time.Now().UTC()
	s.scans[id] = scan

	out := scan
	return &out, true
}

// CreateListingParams holds the caller-supplied fields for a new listing
type CreateListingParams struct {
	ScanID      string
	Marketplace types.Marketplace
	Title       string
	Description *string
	Price       decimal.Decimal
	Status      types.ListingStatus
}

// CreateListing assigns an id and timestamps and stores the listing
func (s *MemoryStore) CreateListing(_ context.Context, params CreateListingParams) *models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	listing := models.Listing{
		ID:          uuid.NewString(),
		ScanID:      params.ScanID,
		Marketplace: params.Marketplace,
		Title:       params.Title,
		Description: params.Description,
		Price:       params.Price,
		Status:      params.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.listings[listing.ID] = listing

	out := listing
	return &out
}

// GetListing returns the listing with the given id, or false when absent
func (s *MemoryStore) GetListing(_ context.Context, id string) (*models.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[id]
	if !ok {
		return nil, false
	}
	out := listing
	return &out, true
}

// GetListingsByScan returns the listings referencing the given scan
func (s *MemoryStore) GetListingsByScan(_ context.Context, scanID string) []*models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var listings []*models.Listing
	for _, listing := range s.listings {
		if listing.ScanID == scanID {
			out := listing
			listings = append(listings, &out)
		}
	}

	sortListingsNewestFirst(listings)
	return listings
}

// GetListingsByUser returns listings whose scan belongs to the user, newest first
func (s *MemoryStore) GetListingsByUser(_ context.Context, userID string) []*models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scanIDs := make(map[string]struct{})
	for _, scan := range s.scans {
		if scan.UserID == userID {
			scanIDs[scan.ID] = struct{}{}
		}
	}

	var listings []*models.Listing
	for _, listing := range s.listings {
		if _, ok := scanIDs[listing.ScanID]; ok {
			out := listing
			listings = append(listings, &out)
		}
	}

	sortListingsNewestFirst(listings)
	return listings
}

func sortListingsNewestFirst(listings []*models.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		}
		return listings[i].ID > listings[j].ID
	})
}

// ListingUpdate holds the partial fields merged into a listing on update
type ListingUpdate struct {
	MarketplaceListingID *string
	Status               *types.ListingStatus
	ListedAt             *time.Time
	Title                *string
	Description          *string
	Price                *decimal.Decimal
}

// UpdateListing merges the partial update, refreshes updatedAt, and returns
// the updated record. Returns (nil, false) when the id is absent.
func (s *MemoryStore) UpdateListing(_ context.Context, id string, update ListingUpdate) (*models.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return nil, false
	}

	if update.MarketplaceListingID != nil {
		listing.MarketplaceListingID = update.MarketplaceListingID
	}
	if update.Status != nil {
		listing.Status = *update.Status
	}
	if update.ListedAt != nil {
		listing.ListedAt = update.ListedAt
	}
	if update.Title != nil {
		listing.Title = *update.Title
	}
	if update.Description != nil {
		listing.Description = update.Description
	}
	if update.Price != nil {
		listing.Price = *update.Price
	}
	listing.UpdatedAt = time.Now().UTC()
	s.listings[id] = listing

	out := listing
	return &out, true
}

// GetMarketplaceConnection returns the connection for a (user, marketplace)
// pair, or false when absent
func (s *MemoryStore) GetMarketplaceConnection(_ context.Context, userID string, marketplace types.Marketplace) (*models.MarketplaceConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		if conn.UserID == userID && conn.Marketplace == marketplace {
			out := conn
			return &out, true
		}
	}
	return nil, false
}

// GetMarketplaceConnections returns all connections for a user
func (s *MemoryStore) GetMarketplaceConnections(_ context.Context, userID string) []*models.MarketplaceConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conns []*models.MarketplaceConnection
	for _, conn := range s.connections {
		if conn.UserID == userID {
			out := conn
			conns = append(conns, &out)
		}
	}
	return conns
}

// UpsertConnectionParams holds the fields applied by a connection upsert
type UpsertConnectionParams struct {
	UserID       string
	Marketplace  types.Marketplace
	IsConnected  bool
	AccessToken  *string
	RefreshToken *string
	ExpiresAt    *time.Time
}

// UpsertMarketplaceConnection inserts or updates the connection for a
// (user, marketplace) pair in a single critical section, so concurrent
// connect requests cannot create duplicate rows.
func (s *MemoryStore) UpsertMarketplaceConnection(_ context.Context, params UpsertConnectionParams) *models.MarketplaceConnection {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	for id, conn := range s.connections {
		if conn.UserID == params.UserID && conn.Marketplace == params.Marketplace {
			conn.IsConnected = params.IsConnected
			if params.AccessToken != nil {
				conn.AccessToken = params.AccessToken
			}
			if params.RefreshToken != nil {
				conn.RefreshToken = params.RefreshToken
			}
			if params.ExpiresAt != nil {
				conn.ExpiresAt = params.ExpiresAt
			}
			conn.UpdatedAt = now
			s.connections[id] = conn

			out := conn
			return &out
		}
	}

	conn := models.MarketplaceConnection{
		ID:           uuid.NewString(),
		UserID:       params.UserID,
		Marketplace:  params.Marketplace,
		IsConnected:  params.IsConnected,
		AccessToken:  params.AccessToken,
		RefreshToken: params.RefreshToken,
		ExpiresAt:    params.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.connections[conn.ID] = conn

	out := conn
	return &out
}
