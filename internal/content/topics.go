// Package content generates blog topics and drafts for a keyword with the
// configured language models. Every operation degrades to fixed templates
// when a model is missing or fails.
package content

import (
	"context"
	"fmt"
	"sync"

	"keyword-scout/pkg/llm"
	"keyword-scout/pkg/logger"
)

const (
	titleCount     = 5
	thumbnailCount = 3
	longtailCount  = 10
)

// Topics is the topic generator output.
type Topics struct {
	Keyword     string      `json:"keyword"`
	Tone        Tone        `json:"tone"`
	Titles      []string    `json:"titles"`
	ContentPlan ContentPlan `json:"contentPlan"`
	Thumbnails  []string    `json:"thumbnails"`
}

// TopicGenerator produces titles, a content plan and thumbnail prompts.
// chat may be nil; research may be nil.
type TopicGenerator struct {
	chat     llm.Generator
	research llm.Generator
	log      *logger.Logger
}

func NewTopicGenerator(chat, research llm.Generator) *TopicGenerator {
	return &TopicGenerator{
		chat:     chat,
		research: research,
		log:      logger.GetLogger().WithField("component", "topic_generator"),
	}
}

// Generate builds all three parts concurrently. It never fails; each part
// falls back independently.
func (g *TopicGenerator) Generate(ctx context.Context, keyword string, tone Tone) Topics {
	tone = ParseTone(string(tone))
	result := Topics{Keyword: keyword, Tone: tone}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		result.Titles = g.Titles(ctx, keyword, tone)
	}()
	go func() {
		defer wg.Done()
		result.ContentPlan = g.ContentPlan(ctx, keyword, tone)
	}()
	go func() {
		defer wg.Done()
		result.Thumbnails = g.Thumbnails(ctx, keyword, tone)
	}()
	wg.Wait()

	g.log.WithFields(map[string]interface{}{
		"keyword":    keyword,
		"tone":       tone,
		"titles":     len(result.Titles),
		"plan":       result.ContentPlan.Source,
		"thumbnails": len(result.Thumbnails),
	}).Info("Topics generated")
	return result
}

// Titles returns five SEO titles.
func (g *TopicGenerator) Titles(ctx context.Context, keyword string, tone Tone) []string {
	p := tone.profile()
	prompt := llm.Prompt{
		System: fmt.Sprintf("%s SEO 최적화된 블로그 제목을 만들어주세요. 선택된 톤: %s", p.persona, p.description),
		User: fmt.Sprintf(`키워드: "%s"
톤/문체: %s

다음 조건에 맞는 블로그 제목 %d개를 생성해주세요:
1. 키워드를 포함한 SEO 최적화
2. 클릭률을 높이는 매력적인 제목
3. 특정 연도를 넣지 않은 자연스러운 표현
4. 선택된 톤/문체에 맞는 스타일
5. 가이드형, 추천형, 비교형, 경험담형, 분석형 등 다양한 접근

JSON 형식으로 응답해주세요:
{"titles": ["제목1", "제목2", "제목3", "제목4", "제목5"]}`, keyword, p.description, titleCount),
		Temperature: 0.7,
		MaxTokens:   500,
	}

	var reply struct {
		Titles []string `json:"titles"`
	}
	if err := g.ask(ctx, "titles", prompt, &reply); err == nil {
		if titles := nonEmpty(reply.Titles); len(titles) > 0 {
			return titles
		}
	}
	return fallbackTitles(keyword)
}

// ContentPlan researches the keyword. Without a research provider, or when
// it fails, the fixed outline is returned.
func (g *TopicGenerator) ContentPlan(ctx context.Context, keyword string, tone Tone) ContentPlan {
	if g.research == nil {
		return FallbackOutline(keyword)
	}

	text, err := g.research.Generate(ctx, llm.Prompt{
		System: `당신은 전문적인 콘텐츠 기획자입니다. 키워드에 대한 정보를 수집하고 체계적으로 정리해주세요.
주제에 가장 적합한 구조로, 실용적이고 구체적인 내용을 마크다운으로 간결하게 정리합니다.`,
		User: fmt.Sprintf(`'%s'에 대한 최신 정보를 조사해서 콘텐츠 기획 자료로 정리해주세요.
기본 개념, 종류, 방법과 절차, 장단점, 선택 기준, 주의사항, 최신 동향 중 주제에 필요한 요소를 골라
블로그 글 작성에 바로 쓸 수 있는 정확한 정보를 제공해주세요.`, keyword),
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil || text == "" {
		g.log.WithError(err).WithField("keyword", keyword).Warn("Content research failed, using fallback outline")
		return FallbackOutline(keyword)
	}
	return ContentPlan{
		Type:    PlanTypeResearch,
		Content: text,
		Keyword: keyword,
		Tone:    tone,
		Source:  "research",
	}
}

// Thumbnails returns three image prompts. A reply that is not JSON is
// used verbatim as a single prompt.
func (g *TopicGenerator) Thumbnails(ctx context.Context, keyword string, tone Tone) []string {
	desc := tone.profile().description
	prompt := llm.Prompt{
		System: fmt.Sprintf("당신은 블로그 썸네일용 이미지 프롬프트를 만드는 전문가입니다. 선택된 톤(%s)에 맞는 시각적 스타일을 고려해주세요.", desc),
		User: fmt.Sprintf(`키워드: "%s"
톤/문체: %s

이 키워드의 블로그 썸네일 이미지 프롬프트 %d개를 만들어주세요:
1. 전문적이고 깔끔한 스타일
2. 라이프스타일 중심의 자연스러운 스타일
3. 선택된 톤에 특화된 창의적 스타일

각 프롬프트는 조명, 구도, 색감을 구체적으로 담아 실제 촬영 가능한 한 문장으로 작성하세요.

JSON 형식으로 응답해주세요:
{"thumbnails": ["프롬프트1", "프롬프트2", "프롬프트3"]}`, keyword, desc, thumbnailCount),
		Temperature: 0.8,
		MaxTokens:   400,
	}

	if g.chat == nil {
		return fallbackThumbnails(keyword)
	}
	raw, err := g.chat.Generate(ctx, prompt)
	if err != nil {
		g.log.WithError(err).Warn("Thumbnail generation failed, using fallback")
		return fallbackThumbnails(keyword)
	}

	var reply struct {
		Thumbnails []string `json:"thumbnails"`
	}
	thumbnails := []string{raw}
	if err := decodeJSON(raw, &reply); err == nil {
		thumbnails = reply.Thumbnails
	}
	if thumbnails = nonEmpty(thumbnails); len(thumbnails) == 0 {
		return fallbackThumbnails(keyword)
	}
	return thumbnails
}

// Longtail suggests ten low-competition search phrases for beginners.
func (g *TopicGenerator) Longtail(ctx context.Context, keyword string) []string {
	prompt := llm.Prompt{
		System: "당신은 SEO 전문가입니다. 블로그 초보자가 상위 노출을 노릴 수 있는 실용적인 롱테일 키워드를 추천해주세요.",
		User: fmt.Sprintf(`'%s'를 기반으로 블로그 초보자가 상위 노출을 노릴 수 있는 롱테일 키워드 %d개만 추천해줘.

조건:
1. 문장이 아닌 실제 검색어처럼 짧고 구체적인 3~6단어
2. 정보형, 비교형, 후기형, 활용형 등 다양한 검색 의도
3. 경쟁이 낮아 초보자도 상위 노출 가능한 키워드
4. 한국어로만 작성

JSON 형식으로 응답해주세요:
{"longtail_keywords": ["키워드1", "키워드2", "..."]}`, keyword, longtailCount),
		Temperature: 0.7,
		MaxTokens:   400,
	}

	var reply struct {
		Keywords []string `json:"longtail_keywords"`
	}
	if err := g.ask(ctx, "longtail", prompt, &reply); err == nil {
		if kws := nonEmpty(reply.Keywords); len(kws) > 0 {
			return kws
		}
	}
	return FallbackLongtail(keyword)
}

func (g *TopicGenerator) ask(ctx context.Context, what string, prompt llm.Prompt, dest interface{}) error {
	if g.chat == nil {
		return llm.ErrNotConfigured
	}
	raw, err := g.chat.Generate(ctx, prompt)
	if err == nil {
		err = decodeJSON(raw, dest)
	}
	if err != nil {
		g.log.WithError(err).WithField("part", what).Warn("Generation failed, using fallback")
	}
	return err
}

func fallbackTitles(keyword string) []string {
	return []string{
		keyword + " 완벽 가이드 - 최신 정보 총정리",
		"초보자를 위한 " + keyword + " 추천 TOP 5 (실제 사용 후기)",
		keyword + ", 이것만 알면 충분! 전문가가 알려주는 핵심 포인트",
		keyword + " 트렌드와 선택 기준 완벽 분석",
		"하루 만에 마스터하는 " + keyword + " 활용법 (단계별 가이드)",
	}
}

func fallbackThumbnails(keyword string) []string {
	return []string{
		fmt.Sprintf("깔끔한 책상 위에 %s가 놓여있고, 따뜻한 조명이 비치는 모습. 미니멀하고 전문적인 느낌의 상품 사진 스타일", keyword),
		fmt.Sprintf("%s를 사용하는 사람의 모습을 측면에서 촬영한 라이프스타일 사진. 자연광이 들어오는 밝은 실내 배경", keyword),
		fmt.Sprintf("여러 개의 %s를 깔끔하게 정렬해서 위에서 내려다본 플랫레이 구도. 흰색 배경에 그림자가 살짝 보이는 스튜디오 촬영 스타일", keyword),
	}
}

// FallbackLongtail is the fixed suffix list used when no model answers.
func FallbackLongtail(keyword string) []string {
	return []string{
		keyword + " 추천",
		keyword + " 비교",
		keyword + " 후기",
		keyword + " 장단점",
		keyword + " 선택법",
		"초보자 " + keyword,
		keyword + " 가격",
		keyword + " 사용법",
		keyword + " 종류",
		keyword + " 활용팁",
	}
}
