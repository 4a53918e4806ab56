package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"keyword-scout/pkg/llm"
	"keyword-scout/pkg/logger"
)

const (
	SourceGenerated   = "generated"
	SourceRegenerated = "regenerated"
	SourceError       = "error"

	articleMaxTokens = 8000
)

// ErrIncompleteRequest is returned when keyword, title or plan is missing.
var ErrIncompleteRequest = errors.New("keyword, title and content plan are required")

// ArticleRequest carries the topic choices into the writer.
type ArticleRequest struct {
	Keyword     string      `json:"keyword"`
	Title       string      `json:"title"`
	ContentPlan ContentPlan `json:"contentPlan"`
	Tone        Tone        `json:"tone"`
	Thumbnails  []string    `json:"thumbnails"`
}

// Missing lists the absent required fields by their request names.
func (r ArticleRequest) Missing() []string {
	var missing []string
	if strings.TrimSpace(r.Keyword) == "" {
		missing = append(missing, "keyword")
	}
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if r.ContentPlan.Empty() {
		missing = append(missing, "contentPlan")
	}
	return missing
}

// Article is a finished draft.
type Article struct {
	Keyword         string      `json:"keyword"`
	Title           string      `json:"title"`
	Tone            Tone        `json:"tone"`
	Content         string      `json:"content"`
	ContentPlan     ContentPlan `json:"contentPlan"`
	Thumbnails      []string    `json:"thumbnails"`
	WordCount       int         `json:"wordCount"`
	RelatedKeywords []string    `json:"relatedKeywords"`
	MetaDescription string      `json:"metaDescription"`
	Error           string      `json:"error,omitempty"`
	Source          string      `json:"source"`
}

// DraftWriter writes full articles with the long-form model.
type DraftWriter struct {
	writer llm.Generator
	log    *logger.Logger
}

func NewDraftWriter(writer llm.Generator) *DraftWriter {
	return &DraftWriter{
		writer: writer,
		log:    logger.GetLogger().WithField("component", "draft_writer"),
	}
}

// Write produces an article. Model failures are reported inside the
// returned article; only an incomplete request is an error.
func (w *DraftWriter) Write(ctx context.Context, req ArticleRequest) (*Article, error) {
	return w.write(ctx, req, false)
}

// Regenerate writes the article again with a different structure and a
// higher temperature.
func (w *DraftWriter) Regenerate(ctx context.Context, req ArticleRequest) (*Article, error) {
	return w.write(ctx, req, true)
}

func (w *DraftWriter) write(ctx context.Context, req ArticleRequest, regenerate bool) (*Article, error) {
	req = normalizeRequest(req)
	if len(req.Missing()) > 0 {
		return nil, ErrIncompleteRequest
	}

	related := RelatedKeywords(req.ContentPlan.SourceText(), req.Keyword)
	source := SourceGenerated
	if regenerate {
		source = SourceRegenerated
	}

	text, err := w.generate(ctx, articlePrompt(req, related, regenerate))
	if err != nil {
		w.log.WithError(err).WithFields(map[string]interface{}{
			"keyword":    req.Keyword,
			"regenerate": regenerate,
		}).Error("Article generation failed")
		return errorArticle(req, err), nil
	}

	article := &Article{
		Keyword:         req.Keyword,
		Title:           req.Title,
		Tone:            req.Tone,
		Content:         text,
		ContentPlan:     req.ContentPlan,
		Thumbnails:      req.Thumbnails,
		WordCount:       WordCount(text),
		RelatedKeywords: related,
		MetaDescription: MetaDescription(req.Title, req.Keyword),
		Source:          source,
	}
	w.log.WithFields(map[string]interface{}{
		"keyword":    req.Keyword,
		"word_count": article.WordCount,
		"source":     source,
	}).Info("Article generated")
	return article, nil
}

// Stream writes the article chunk by chunk into fn.
func (w *DraftWriter) Stream(ctx context.Context, req ArticleRequest, fn func(chunk string) error) error {
	req = normalizeRequest(req)
	if len(req.Missing()) > 0 {
		return ErrIncompleteRequest
	}
	if w.writer == nil {
		return llm.ErrNotConfigured
	}

	related := RelatedKeywords(req.ContentPlan.SourceText(), req.Keyword)
	if err := w.writer.Stream(ctx, articlePrompt(req, related, false), fn); err != nil {
		return fmt.Errorf("article stream failed: %w", err)
	}
	return nil
}

func (w *DraftWriter) generate(ctx context.Context, p llm.Prompt) (string, error) {
	if w.writer == nil {
		return "", llm.ErrNotConfigured
	}
	return w.writer.Generate(ctx, p)
}

func normalizeRequest(req ArticleRequest) ArticleRequest {
	req.Tone = ParseTone(string(req.Tone))
	if req.Thumbnails == nil {
		req.Thumbnails = []string{}
	}
	return req
}

func errorArticle(req ArticleRequest, cause error) *Article {
	return &Article{
		Keyword:         req.Keyword,
		Title:           req.Title,
		Tone:            req.Tone,
		Content:         fmt.Sprintf("# %s\n\n죄송합니다. 글 생성 중 오류가 발생했습니다.\n\n키워드: %s\n톤: %s\n\n오류: %v", req.Title, req.Keyword, req.Tone, cause),
		ContentPlan:     req.ContentPlan,
		Thumbnails:      req.Thumbnails,
		RelatedKeywords: []string{},
		MetaDescription: req.Keyword + "에 대한 정보입니다.",
		Error:           cause.Error(),
		Source:          SourceError,
	}
}

func articlePrompt(req ArticleRequest, related []string, regenerate bool) llm.Prompt {
	p := req.Tone.profile()
	relatedLine := req.Keyword + " 관련"
	if len(related) > 0 {
		relatedLine = strings.Join(related, ", ")
	}

	var sb strings.Builder
	sb.WriteString("당신은 SEO 최적화와 사용자 친화적인 글쓰기 전문가입니다.")
	if regenerate {
		sb.WriteString(" 이전과는 다른 새로운 관점과 구조로 글을 작성해주세요.")
	}
	fmt.Fprintf(&sb, `

**작성 조건:**
- 키워드: "%s"
- 제목: "%s"
- 글의 톤/문체: %s (%s)
- 독자 대상: %s

**주어진 소스 정보:**
%s

**요구사항:**
1. 내용을 생략하거나 중간에 멈추지 말고 완전한 글을 한 번에 끝까지 작성
2. 5000자 이상, 각 H2(##) 섹션은 3~4개 이상의 문단, H3(###) 하위 섹션 활용
3. 구체적인 수치, 예시, 경험담과 단계별 방법 포함
4. 키워드를 본문에 자연스럽게 5~8회 포함
5. 소스에 언급된 주요 정보를 빠짐없이 설명

**글 끝 요소:**
- 핵심 내용 요약과 행동 유도(CTA)
- 관련 키워드: %s
- 추천 태그 (#태그 형식 5~8개)

%s 방식으로 작성해주세요.`,
		req.Keyword, req.Title, req.Tone, p.style, p.reader,
		req.ContentPlan.SourceText(), relatedLine, p.approach)

	temperature := float32(0.7)
	if regenerate {
		temperature = 0.9
	}
	return llm.Prompt{User: sb.String(), Temperature: temperature, MaxTokens: articleMaxTokens}
}
