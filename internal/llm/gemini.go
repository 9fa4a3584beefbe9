package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

// GeminiClient calls the Gemini API through the generative-ai-go SDK.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(model),
		name:   model,
	}, nil
}

// Generate sends prompt as a single text part.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string {
	return g.name
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() {
	g.client.Close()
}

// responseText concatenates the text parts of the first candidate that has
// content.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		return sb.String()
	}
	return ""
}

func classifyGeminiError(err error) error {
	var ae *apierror.APIError
	if errors.As(err, &ae) {
		if ae.Reason() == "API_KEY_INVALID" || isAuthStatus(ae.HTTPCode()) {
			return fmt.Errorf("%w: gemini: %w", ErrClientAuth, err)
		}
		if st := ae.GRPCStatus(); st != nil {
			if c := st.Code(); c == codes.Unauthenticated || c == codes.PermissionDenied {
				return fmt.Errorf("%w: gemini: %w", ErrClientAuth, err)
			}
		}
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && isAuthStatus(gerr.Code) {
		return fmt.Errorf("%w: gemini: %w", ErrClientAuth, err)
	}
	return fmt.Errorf("%w: gemini: %w", ErrModelCall, err)
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
