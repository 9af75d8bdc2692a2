package service

import (
	"context"
	"time"

	"github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/models"
	"github.com/flipperzap/internal/storage"
	"github.com/flipperzap/internal/types"
)

// ConnectionService manages per-user marketplace links
type ConnectionService struct {
	store *storage.MemoryStore
}

// NewConnectionService wires the marketplace connection operations
func NewConnectionService(store *storage.MemoryStore) *ConnectionService {
	return &ConnectionService{store: store}
}

// ConnectInput is the payload for linking a marketplace account
type ConnectInput struct {
	Marketplace  string     `json:"marketplace"`
	AccessToken  *string    `json:"accessToken,omitempty"`
	RefreshToken *string    `json:"refreshToken,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// Connect links the user to a marketplace. Repeating the call refreshes the
// stored credentials; there is always at most one row per (user, marketplace).
func (s *ConnectionService) Connect(ctx context.Context, userID string, input ConnectInput) (*models.MarketplaceConnection, error) {
	mp := types.Marketplace(input.Marketplace)

	supported := false
	for _, m := range types.SupportedMarketplaces() {
		if mp == m {
			supported = true
			break
		}
	}
	if !supported {
		return nil, errors.NewUnsupportedMarketplaceError(input.Marketplace)
	}

	conn := s.store.UpsertMarketplaceConnection(ctx, storage.UpsertConnectionParams{
		UserID:       userID,
		Marketplace:  mp,
		IsConnected:  true,
		AccessToken:  input.AccessToken,
		RefreshToken: input.RefreshToken,
		ExpiresAt:    input.ExpiresAt,
	})
	return conn, nil
}

// ConnectionStatus is one marketplace's link state for the status endpoint
type ConnectionStatus struct {
	Marketplace types.Marketplace `json:"marketplace"`
	Connected   bool              `json:"connected"`
	LastUpdated *time.Time        `json:"lastUpdated,omitempty"`
}

// Status reports every supported marketplace, connected or not, in the
// fixed marketplace order.
func (s *ConnectionService) Status(ctx context.Context, userID string) []ConnectionStatus {
	connections := s.store.GetMarketplaceConnections(ctx, userID)

	byMarketplace := make(map[types.Marketplace]*models.MarketplaceConnection, len(connections))
	for _, conn := range connections {
		byMarketplace[conn.Marketplace] = conn
	}

	statuses := make([]ConnectionStatus, 0, len(types.SupportedMarketplaces()))
	for _, mp := range types.SupportedMarketplaces() {
		status := ConnectionStatus{Marketplace: mp}
		if conn, ok := byMarketplace[mp]; ok {
			status.Connected = conn.IsConnected
			updatedAt := conn.UpdatedAt
			status.LastUpdated = &updatedAt
		}
		statuses = append(statuses, status)
	}
	return statuses
}
