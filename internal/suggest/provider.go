package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/saulo-duarte/swayami/internal/config"
	"google.golang.org/genai"
)

var (
	ErrMissingCredential = errors.New("ai provider credential not configured")
	ErrEmptyResponse     = errors.New("empty response from model")
)

// Provider sends one prompt to a language model and returns its raw text.
type Provider interface {
	SendPrompt(ctx context.Context, prompt Prompt) (string, error)
}

type geminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model, baseURL string) (Provider, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) SendPrompt(ctx context.Context, prompt Prompt) (string, error) {
	log := config.WithContext(ctx)

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(prompt.Temperature),
		MaxOutputTokens:   int32(prompt.MaxTokens),
	})
	if err != nil {
		log.WithError(err).Error("Gemini content generation failed")
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := result.Text()
	log.Debugf("[SUGGEST] Raw Gemini response:\n%s", raw)
	if raw == "" {
		return "", ErrEmptyResponse
	}
	return raw, nil
}

type disabledProvider struct{}

func (disabledProvider) SendPrompt(context.Context, Prompt) (string, error) {
	return "", ErrMissingCredential
}

// NewProvider builds the provider named in cfg. A missing key yields a
// provider that always fails, so every call takes the fallback path.
func NewProvider(ctx context.Context, cfg config.AIConfig, httpClient *http.Client) Provider {
	log := config.WithContext(ctx).WithField("provider", cfg.Provider)

	if cfg.APIKey == "" {
		log.Warn("AI provider key not configured, suggestions will use fallbacks")
		return disabledProvider{}
	}

	switch cfg.Provider {
	case "gemini":
		model := cfg.Model
		if model == "gpt-3.5-turbo" {
			model = ""
		}
		p, err := NewGeminiProvider(ctx, cfg.APIKey, model, "")
		if err != nil {
			log.WithError(err).Error("Failed to create Gemini provider")
			return disabledProvider{}
		}
		return p
	default:
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient)
	}
}
