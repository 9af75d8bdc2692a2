package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flipperzap/internal/errors"
)

const analysisPrompt = "Analyze this toy image and provide: toy name, brand, category, " +
	"condition (mint/excellent/good/fair/poor), description, and estimated resale price range in USD. " +
	"Return as JSON with fields: toyName, brand, category, condition, description, " +
	"estimatedPriceMin, estimatedPriceMax, confidence (0-1)."

// OpenAIService analyzes toy images via the OpenAI vision API
type OpenAIService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewOpenAIService creates a new OpenAI vision client
func NewOpenAIService(apiKey string) *OpenAIService {
	return &OpenAIService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.openai.com/v1",
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeToy sends the image to the vision model and parses the JSON analysis
// from the model's reply.
func (s *OpenAIService) AnalyzeToy(ctx context.Context, imageURL string) (*Analysis, error) {
	payload := chatRequest{
		Model: "gpt-4-vision-preview",
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []chatContent{
					{Type: "text", Text: analysisPrompt},
					{Type: "image_url", ImageURL: &chatImageURL{URL: imageURL}},
				},
			},
		},
		MaxTokens: 500,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewProviderError("openai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.NewProviderError("openai",
			fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, errors.NewProviderError("openai", fmt.Errorf("failed to decode response: %w", err))
	}
	if len(chatResp.Choices) == 0 {
		return nil, errors.NewProviderError("openai", fmt.Errorf("response contained no choices"))
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &analysis); err != nil {
		return nil, errors.NewProviderError("openai", fmt.Errorf("failed to parse analysis from model reply: %w", err))
	}

	return &analysis, nil
}
