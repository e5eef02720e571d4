package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/hanmd/internal/apperrors"
	"github.com/oukeidos/hanmd/internal/httpclient"
	"github.com/oukeidos/hanmd/internal/llm"
	"google.golang.org/api/option"
)

// Client handles communication with the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	usage  llm.Usage
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	// Note: We avoid using option.WithHTTPClient because it interferes with the genai library's
	// internal header injection for API keys, causing 403 errors.
	// Instead, we enforce timeouts via context in the Invoke method.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Ensure Client satisfies the provider contracts.
var (
	_ llm.Invoker       = (*Client)(nil)
	_ llm.UsageReporter = (*Client)(nil)
)

// Invoke sends a plain-text prompt to Gemini and returns the response text.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	// Enforce default timeout to prevent indefinite hangs, since we are not using a custom HTTP client with timeout.
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return "", apperrors.Validation(err)
	}

	if resp.UsageMetadata != nil {
		c.usage.Add(llm.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		})
	}

	return text, nil
}

// Usage returns the token usage accumulated across all calls on this client.
func (c *Client) Usage() llm.Usage {
	return c.usage
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for i, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
		if i == len(resp.Candidates)-1 {
			break
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
