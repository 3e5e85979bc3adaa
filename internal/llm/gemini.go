package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mealmuse/internal/config"
	"mealmuse/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiClient is a client for the Google Gemini API. The underlying SDK
// client is created on first use so a missing key fails the first call
// rather than process startup.
type geminiClient struct {
	apiKey    string
	modelName string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(cfg *config.Config) GenerateCloser {
	return &geminiClient{apiKey: cfg.GeminiAPIKey, modelName: cfg.GeminiModel}
}

func (c *geminiClient) init(ctx context.Context) error {
	c.once.Do(func() {
		if c.apiKey == "" {
			c.initErr = errors.New("GEMINI_API_KEY is not configured")
			return
		}
		c.client, c.initErr = genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
		if c.initErr != nil {
			c.initErr = fmt.Errorf("failed to create Gemini client: %w", c.initErr)
		}
	})
	return c.initErr
}

// Generate sends a prompt to the Gemini model with structured JSON output
// constrained to schema.
func (c *geminiClient) Generate(ctx context.Context, prompt string, schema *Schema) (ContentResponse, error) {
	if err := c.init(ctx); err != nil {
		return ContentResponse{}, err
	}

	model := c.client.GenerativeModel(c.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema.toGenai()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return ContentResponse{}, fmt.Errorf("generated content is not text")
	}

	usage := shared.TokenUsage{Model: c.modelName}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return ContentResponse{Content: string(text), Usage: usage}, nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
