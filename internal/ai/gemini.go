package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider adapts the genai SDK to the Provider interface. Gemini takes
// the system prompt as a SystemInstruction rather than an in-band message and
// names the assistant role "model".
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func (p *GeminiProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p.client == nil {
		return "", errors.New("gemini: client is nil")
	}

	model := p.client.GenerativeModel(p.model)

	var history []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(m.Content)},
			}
		case RoleAssistant:
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		default:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		}
	}

	if len(history) == 0 {
		return "", errors.New("gemini: no conversation turns")
	}
	last := history[len(history)-1]
	if last.Role != "user" {
		return "", errors.New("gemini: last turn must be from the user")
	}

	session := model.StartChat()
	session.History = history[:len(history)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini: response had no text parts")
	}
	return b.String(), nil
}
