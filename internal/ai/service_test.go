package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipperzap/internal/config"
	"github.com/flipperzap/internal/errors"
)

func TestMockServiceReturnsCannedResult(t *testing.T) {
	svc := NewMockService(0)

	analysis, err := svc.AnalyzeToy(context.Background(), "/uploads/toy.jpg")
	require.NoError(t, err)

	known := map[string]bool{
		"LEGO Creator Expert Big Ben": true,
		"Vintage Barbie Doll":         true,
		"Hot Wheels Cars Set":         true,
	}
	assert.True(t, known[analysis.ToyName], "unexpected toy name %q", analysis.ToyName)
	assert.True(t, analysis.Condition.Valid(), "condition must be a graded value")
	assert.True(t, analysis.EstimatedPriceMin.LessThanOrEqual(analysis.EstimatedPriceMax))
	assert.Greater(t, analysis.Confidence, 0.0)
	assert.LessOrEqual(t, analysis.Confidence, 1.0)
}

func TestMockServiceHonorsCancellation(t *testing.T) {
	svc := NewMockService(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.AnalyzeToy(ctx, "/uploads/toy.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "cancellation must not wait out the delay")
}

func TestOpenAIServiceParsesAnalysis(t *testing.T) {
	content := `{"toyName":"Transformers Optimus Prime","brand":"Hasbro","category":"Action Figures",` +
		`"condition":"excellent","description":"G1 reissue in box.",` +
		`"estimatedPriceMin":60,"estimatedPriceMax":110,"confidence":0.9}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4-vision-preview", req.Model)
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		assert.Equal(t, "https://example.com/toy.jpg", req.Messages[0].Content[1].ImageURL.URL)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewOpenAIService("test-key")
	svc.baseURL = server.URL

	analysis, err := svc.AnalyzeToy(context.Background(), "https://example.com/toy.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Transformers Optimus Prime", analysis.ToyName)
	require.NotNil(t, analysis.Brand)
	assert.Equal(t, "Hasbro", *analysis.Brand)
	assert.Equal(t, "60", analysis.EstimatedPriceMin.String())
}

func TestOpenAIServiceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewOpenAIService("test-key")
	svc.baseURL = server.URL

	_, err := svc.AnalyzeToy(context.Background(), "https://example.com/toy.jpg")
	require.Error(t, err)

	var catErr *errors.CategorizedError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, "PROVIDER_ERROR", catErr.Code)
}

func TestOpenAIServiceUnparseableContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Sorry, I cannot analyze this image."}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewOpenAIService("test-key")
	svc.baseURL = server.URL

	_, err := svc.AnalyzeToy(context.Background(), "https://example.com/toy.jpg")
	require.Error(t, err)
}

func TestNewServiceSelection(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.AIConfig
		wantMock bool
	}{
		{"mock by default", config.AIConfig{UseMock: true}, true},
		{"mock without key", config.AIConfig{UseMock: false, OpenAIAPIKey: ""}, true},
		{"live with key", config.AIConfig{UseMock: false, OpenAIAPIKey: "sk-test"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&tt.cfg)
			_, isMock := svc.(*MockService)
			assert.Equal(t, tt.wantMock, isMock)
		})
	}
}
