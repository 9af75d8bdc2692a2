package ai

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flipperzap/internal/types"
)

func strPtr(s string) *string { return &s }

// mockResults are realistic canned analyses the mock service cycles through
var mockResults = []Analysis{
	{
		ToyName:           "LEGO Creator Expert Big Ben",
		Brand:             strPtr("LEGO"),
		Category:          "Building Sets",
		Condition:         types.ConditionGood,
		Description:       "Large architectural building set with detailed Big Ben clock tower replica. Includes over 4,000 pieces.",
		EstimatedPriceMin: decimal.NewFromInt(220),
		EstimatedPriceMax: decimal.NewFromInt(280),
		Confidence:        0.92,
	},
	{
		ToyName:           "Vintage Barbie Doll",
		Brand:             strPtr("Mattel"),
		Category:          "Dolls",
		Condition:         types.ConditionExcellent,
		Description:       "Classic Barbie doll from the 1990s in original packaging. Blonde hair, pink dress.",
		EstimatedPriceMin: decimal.NewFromInt(45),
		EstimatedPriceMax: decimal.NewFromInt(85),
		Confidence:        0.87,
	},
	{
		ToyName:           "Hot Wheels Cars Set",
		Brand:             strPtr("Hot Wheels"),
		Category:          "Die-cast Cars",
		Condition:         types.ConditionGood,
		Description:       "Collection of vintage Hot Wheels cars from various years. Some wear on paint.",
		EstimatedPriceMin: decimal.NewFromInt(15),
		EstimatedPriceMax: decimal.NewFromInt(35),
		Confidence:        0.78,
	},
}

// MockService returns canned analyses after a simulated processing delay
type MockService struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockService creates a mock analyzer with the given simulated delay
func NewMockService(delay time.Duration) *MockService {
	return &MockService{
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AnalyzeToy picks one of the canned results. It honors context cancellation
// during the simulated delay.
func (s *MockService) AnalyzeToy(ctx context.Context, imageURL string) (*Analysis, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	result := mockResults[s.rng.Intn(len(mockResults))]
	s.mu.Unlock()

	return &result, nil
}
