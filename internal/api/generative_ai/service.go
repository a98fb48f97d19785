package generativeAI

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

const defaultModel = "gemini-2.0-flash"

// AIClient wraps the Gemini backend behind a single-round-trip text call.
type AIClient struct {
	client *genai.Client
	model  string
}

// NewAIClient initializes the Gemini client from GOOGLE_GEMINI_API_KEY.
// A missing key is a configuration error, distinct from a failed call.
func NewAIClient(ctx context.Context) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_GEMINI_API_KEY is not set", types.ErrBackendNotConfigured)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBackendNotConfigured, err)
	}
	return &AIClient{
		client: client,
		model:  defaultModel,
	}, nil
}

// Complete sends one prompt and returns the response text. No streaming, no
// retry: one round trip per call.
func (ai *AIClient) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}
