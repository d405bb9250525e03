package enrich

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

const classifierSystemPrompt = "You rate how likely a message is a phishing attempt. " +
	"Respond with a single decimal number between 0 and 1 and nothing else."

// GeminiClassifier scores text through the Gemini API. The model is
// prompted to answer with a bare confidence number; anything unparseable is
// an error and the caller skips the signal.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier builds the collaborator with an API key.
func NewGeminiClassifier(ctx context.Context, apiKey string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiClassifier{client: client, model: "gemini-1.5-flash-8b"}, nil
}

// Confidence implements TextClassifier.
func (g *GeminiClassifier) Confidence(ctx context.Context, text string) (float64, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(classifierSystemPrompt, genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), config)
	if err != nil {
		return 0, err
	}
	conf, err := strconv.ParseFloat(strings.TrimSpace(result.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("classifier answer not a number: %w", err)
	}
	if conf < 0 || conf > 1 {
		return 0, fmt.Errorf("classifier answer out of range: %v", conf)
	}
	return conf, nil
}
