package models

import (
	"encoding/json"
	"time"

	"github.com/flipperzap/internal/types"
)

// Toy represents an identified toy produced by a completed scan.
// Created once per completed scan and never updated.
type Toy struct {
	ID          string             `json:"id" db:"id"`
	Name        string             `json:"name" db:"name"`
	Brand       *string            `json:"brand,omitempty" db:"brand"`
	Category    *string            `json:"category,omitempty" db:"category"`
	Description *string            `json:"description,omitempty" db:"description"`
	Condition   types.ToyCondition `json:"condition" db:"condition"`
	ImageURL    string             `json:"imageUrl" db:"image_url"`
	AIAnalysis  json.RawMessage    `json:"aiAnalysis,omitempty" db:"ai_analysis"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
}
