package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MistralProvider talks to the Mistral chat-completions API
// (OpenAI-compatible wire format).
type MistralProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

type mistralMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralChatReq struct {
	Model    string       `json:"model"`
	Messages []mistralMsg `json:"messages"`
}

type mistralChatResp struct {
	Choices []struct {
		Message mistralMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewMistralProvider(baseURL, apiKey, model string) *MistralProvider {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	if model == "" {
		model = "mistral-large-latest"
	}
	return &MistralProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *MistralProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p.Client == nil {
		return "", errors.New("mistral: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", errors.New("mistral: api key is required")
	}
	model := strings.TrimSpace(p.Model)
	if model == "" {
		return "", errors.New("mistral: model is required")
	}

	reqBody := mistralChatReq{
		Model: model,
		Messages: func() []mistralMsg {
			out := make([]mistralMsg, 0, len(messages))
			for _, m := range messages {
				out = append(out, mistralMsg{Role: m.Role, Content: m.Content})
			}
			return out
		}(),
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("mistral: %s", msg)
	}

	var decoded mistralChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("mistral: empty response")
	}
	return decoded.Choices[0].Message.Content, nil
}
