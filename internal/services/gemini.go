package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiRecognizer struct {
	client    *genai.Client
	modelName string
}

// NewGeminiRecognizer returns an EntityRecognizer backed by the Gemini API.
// Used instead of the in-process recognizer when an API key is configured.
func NewGeminiRecognizer(apiKey string) (EntityRecognizer, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiRecognizer{
		client:    client,
		modelName: "gemini-2.5-flash",
	}, nil
}

func (g *geminiRecognizer) Recognize(ctx context.Context, text string) ([]EntitySpan, error) {
	prompt := buildPersonEntityPrompt(text)

	temperature := float32(0.0)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 1024,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response generated (nil response)")
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	var names []string
	if err := json.Unmarshal([]byte(extractJSON(responseText)), &names); err != nil {
		return nil, fmt.Errorf("failed to parse entity response: %w", err)
	}

	var spans []EntitySpan
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		spans = append(spans, EntitySpan{Text: name, Label: PersonLabel})
	}
	return spans, nil
}

func buildPersonEntityPrompt(text string) string {
	// Keep the prompt bounded; names show up near the top of a resume.
	if len(text) > 8000 {
		text = text[:8000]
	}

	return fmt.Sprintf(`You are a named-entity recognizer.

TEXT:
%s

List every person name mentioned in the text, in the order they appear.
Return ONLY a JSON array of strings, for example: ["Jane Doe", "John Smith"].
Return [] if the text contains no person names.`, text)
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object or array boundaries
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	// Determine if we have an object or array
	if startArr != -1 && endArr != -1 && endArr > startArr {
		// We have a JSON array
		return text[startArr : endArr+1]
	} else if startObj != -1 && endObj != -1 && endObj > startObj {
		// We have a JSON object
		return text[startObj : endObj+1]
	}

	return text
}
