// Package ai provides toy image analysis services for the resale pipeline.
package ai

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/flipperzap/internal/config"
	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/types"
)

// Analysis is the result of analyzing a toy image
type Analysis struct {
	ToyName           string             `json:"toyName"`
	Brand             *string            `json:"brand,omitempty"`
	Category          string             `json:"category"`
	Condition         types.ToyCondition `json:"condition"`
	Description       string             `json:"description"`
	EstimatedPriceMin decimal.Decimal    `json:"estimatedPriceMin"`
	EstimatedPriceMax decimal.Decimal    `json:"estimatedPriceMax"`
	Confidence        float64            `json:"confidence"`
}

// Service analyzes toy images
type Service interface {
	AnalyzeToy(ctx context.Context, imageURL string) (*Analysis, error)
}

// NewService returns the analysis service matching the configuration: the
// canned mock unless an OpenAI key is configured and mock mode is off.
func NewService(cfg *config.AIConfig) Service {
	if cfg.UseMock || cfg.OpenAIAPIKey == "" {
		logging.GetGlobalLogger().Info("Using mock AI service")
		return NewMockService(cfg.MockDelay)
	}

	logging.GetGlobalLogger().Info("Using OpenAI Vision service")
	return NewOpenAIService(cfg.OpenAIAPIKey)
}
