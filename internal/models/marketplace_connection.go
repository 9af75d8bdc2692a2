package models

import (
	"time"

	"github.com/flipperzap/internal/types"
)

// MarketplaceConnection represents per-user credential/linkage state for a
// marketplace. Unique per (userId, marketplace) pair.
type MarketplaceConnection struct {
	ID           string            `json:"id" db:"id"`
	UserID       string            `json:"userId" db:"user_id"`
	Marketplace  types.Marketplace `json:"marketplace" db:"marketplace"`
	IsConnected  bool              `json:"isConnected" db:"is_connected"`
	AccessToken  *string           `json:"accessToken,omitempty" db:"access_token"`
	RefreshToken *string           `json:"refreshToken,omitempty" db:"refresh_token"`
	ExpiresAt    *time.Time        `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}
