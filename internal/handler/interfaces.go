package handler

import (
	"context"

	"golang.org/x/text/language"

	"keyword-scout/internal/content"
	"keyword-scout/internal/research"
)

// Researcher builds the keyword report behind /api/search.
type Researcher interface {
	Analyze(ctx context.Context, keyword string, lang language.Tag) (*research.Report, error)
}

// TopicSource generates titles, a content plan and thumbnail prompts.
type TopicSource interface {
	Generate(ctx context.Context, keyword string, tone content.Tone) content.Topics
}

// ArticleWriter writes full drafts.
type ArticleWriter interface {
	Write(ctx context.Context, req content.ArticleRequest) (*content.Article, error)
	Regenerate(ctx context.Context, req content.ArticleRequest) (*content.Article, error)
	Stream(ctx context.Context, req content.ArticleRequest, fn func(chunk string) error) error
}
