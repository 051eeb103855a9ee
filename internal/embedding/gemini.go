package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the embedding model used when none is configured.
const DefaultGeminiModel = "text-embedding-004"

// geminiDimensions is the output size of text-embedding-004.
const geminiDimensions = 768

// Gemini embeds text through the Google Gemini embedding API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini embedder. model "" uses DefaultGeminiModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Embed implements Embedder.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return make([]float32, geminiDimensions), nil
	}

	em := g.client.EmbeddingModel(g.model)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return resp.Embedding.Values, nil
}

// Dimensions implements Embedder.
func (g *Gemini) Dimensions() int {
	return geminiDimensions
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
