package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"keyword-scout/pkg/logger"
)

// OpenAI drives any OpenAI-compatible chat completion endpoint through eino.
// The research provider uses it with a different base URL.
type OpenAI struct {
	chat  model.BaseChatModel
	model string
	log   *logger.Logger
}

func NewOpenAI(ctx context.Context, name string, cfg ProviderConfig) (*OpenAI, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%s: %w", name, ErrNotConfigured)
	}
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s chat model: %w", name, err)
	}
	return NewOpenAIWithModel(chat, name, cfg.Model), nil
}

// NewOpenAIWithModel wraps an existing eino chat model.
func NewOpenAIWithModel(chat model.BaseChatModel, name, modelName string) *OpenAI {
	return &OpenAI{
		chat:  chat,
		model: modelName,
		log:   logger.GetLogger().WithFields(map[string]interface{}{"component": "llm", "provider": name}),
	}
}

func (o *OpenAI) Generate(ctx context.Context, p Prompt) (string, error) {
	resp, err := o.chat.Generate(ctx, messages(p), options(p)...)
	if err != nil {
		return "", fmt.Errorf("%s generate failed: %w", o.model, err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("%s returned an empty message", o.model)
	}
	o.log.WithField("chars", len([]rune(resp.Content))).Debug("Completion received")
	return resp.Content, nil
}

func (o *OpenAI) Stream(ctx context.Context, p Prompt, fn func(chunk string) error) error {
	reader, err := o.chat.Stream(ctx, messages(p), options(p)...)
	if err != nil {
		return fmt.Errorf("%s stream failed: %w", o.model, err)
	}
	defer reader.Close()

	for {
		msg, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s stream interrupted: %w", o.model, err)
		}
		if msg == nil || msg.Content == "" {
			continue
		}
		if err := fn(msg.Content); err != nil {
			return err
		}
	}
}

func messages(p Prompt) []*schema.Message {
	msgs := make([]*schema.Message, 0, 2)
	if p.System != "" {
		msgs = append(msgs, schema.SystemMessage(p.System))
	}
	return append(msgs, schema.UserMessage(p.User))
}

func options(p Prompt) []model.Option {
	var opts []model.Option
	if p.Temperature > 0 {
		opts = append(opts, model.WithTemperature(p.Temperature))
	}
	if p.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(p.MaxTokens))
	}
	return opts
}
