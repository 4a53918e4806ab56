package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"keyword-scout/pkg/logger"
)

// Gemini writes long-form content with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

func NewGemini(ctx context.Context, cfg ProviderConfig) (*Gemini, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("gemini: %w", ErrNotConfigured)
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  cfg.Model,
		log:    logger.GetLogger().WithFields(map[string]interface{}{"component": "llm", "provider": "gemini"}),
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) generativeModel(p Prompt) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.model)
	if p.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.System)}}
	}
	if p.Temperature > 0 {
		m.SetTemperature(p.Temperature)
	}
	if p.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(p.MaxTokens))
	}
	return m
}

func (g *Gemini) Generate(ctx context.Context, p Prompt) (string, error) {
	resp, err := g.generativeModel(p).GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	g.log.WithField("chars", len([]rune(text))).Debug("Completion received")
	return text, nil
}

func (g *Gemini) Stream(ctx context.Context, p Prompt, fn func(chunk string) error) error {
	iter := g.generativeModel(p).GenerateContentStream(ctx, genai.Text(p.User))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini stream interrupted: %w", err)
		}
		if chunk := responseText(resp); chunk != "" {
			if err := fn(chunk); err != nil {
				return err
			}
		}
	}
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
