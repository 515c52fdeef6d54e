package retouch

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for image edits.
const DefaultModel = "gemini-2.5-flash-image"

// GeminiEditor edits images with the Gemini API.
type GeminiEditor struct {
	client *genai.Client
	model  string
}

// NewGeminiEditor creates an editor authenticated with apiKey.
func NewGeminiEditor(ctx context.Context, apiKey, model string) (*GeminiEditor, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiEditor{client: client, model: model}, nil
}

// Model returns the model name requests are sent to.
func (g *GeminiEditor) Model() string { return g.model }

// Edit sends the image and prompt in one user turn and returns the first
// inline image of the first candidate.
func (g *GeminiEditor) Edit(ctx context.Context, image []byte, mimeType, prompt string) ([]byte, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: image, MIMEType: mimeType}},
			{Text: prompt},
		},
	}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return firstInlineImage(resp)
}

func firstInlineImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrNoImage
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return nil, ErrNoImage
	}
	for _, part := range content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, ErrNoImage
}
