package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/models"
)

// FallbackReply is returned when no model is configured or a call fails.
// Visitors get a polite nudge instead of an error page.
const FallbackReply = "I'm having trouble reaching the assistant right now. Please try again in a moment, or use the contact details on this page to get in touch directly."

// DefaultModel is used when the configuration does not name one.
const DefaultModel = "gemini-2.5-flash"

// Bridge answers visitor questions, grounded on the current portfolio
// content. The system prompt is rebuilt per request so edits made in the
// admin panel are reflected immediately.
type Bridge struct {
	client *genai.Client
	model  string
}

// New dials the Gemini API. The key is required; callers that have no key
// should skip construction and serve FallbackReply instead.
func New(ctx context.Context, apiKey, model string) (*Bridge, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assistant: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: create client: %w", err)
	}
	return &Bridge{client: client, model: model}, nil
}

// Ask sends one visitor message with the prior conversation turns and
// returns the model's reply. History must alternate user/model turns and
// is forwarded as-is; error turns are dropped so a failed exchange does
// not pollute the next one.
func (b *Bridge) Ask(ctx context.Context, snap content.Context, history []models.ChatMessage, message string) (string, error) {
	model := b.client.GenerativeModel(b.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemPrompt(snap))},
	}

	cs := model.StartChat()
	for _, m := range history {
		if m.IsError {
			continue
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  m.Role,
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("assistant: send message: %w", err)
	}
	return extractText(resp)
}

// Close releases the underlying API client.
func (b *Bridge) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("assistant: no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("assistant: no content in response")
	}
	var parts []string
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("assistant: no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
