package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	PlanTypeResearch = "content_plan"
	PlanTypeOutline  = "outline"
)

// Section is one heading of an outline.
type Section struct {
	Title       string   `json:"title"`
	Subsections []string `json:"subsections,omitempty"`
}

// ContentPlan is either researched free text or a fixed outline.
type ContentPlan struct {
	Type    string    `json:"type"`
	Content string    `json:"content,omitempty"`
	Outline []Section `json:"outline,omitempty"`
	Keyword string    `json:"keyword,omitempty"`
	Tone    Tone      `json:"tone,omitempty"`
	Source  string    `json:"source,omitempty"`
}

// UnmarshalJSON accepts the object form, a bare outline array or a plain
// string.
func (p *ContentPlan) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ContentPlan{}
		return nil
	}

	switch data[0] {
	case '[':
		var outline []Section
		if err := json.Unmarshal(data, &outline); err != nil {
			return fmt.Errorf("invalid outline: %w", err)
		}
		*p = ContentPlan{Type: PlanTypeOutline, Outline: outline}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ContentPlan{Type: PlanTypeResearch, Content: s}
	default:
		type plain ContentPlan
		var v plain
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid content plan: %w", err)
		}
		*p = ContentPlan(v)
		if p.Type == "" {
			p.Type = PlanTypeResearch
			if len(p.Outline) > 0 {
				p.Type = PlanTypeOutline
			}
		}
	}
	return nil
}

// Empty reports whether the plan carries nothing to write from.
func (p ContentPlan) Empty() bool {
	return strings.TrimSpace(p.Content) == "" && len(p.Outline) == 0
}

// SourceText renders the plan as prompt input. Outlines become numbered
// headings with dotted sub-numbers.
func (p ContentPlan) SourceText() string {
	if p.Type != PlanTypeOutline || len(p.Outline) == 0 {
		return p.Content
	}
	var sb strings.Builder
	for i, s := range p.Outline {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s.Title)
		for j, sub := range s.Subsections {
			fmt.Fprintf(&sb, "  %d.%d %s\n", i+1, j+1, sub)
		}
	}
	return sb.String()
}

// FallbackOutline is used when no research provider answers.
func FallbackOutline(keyword string) ContentPlan {
	return ContentPlan{
		Type:    PlanTypeOutline,
		Keyword: keyword,
		Source:  "fallback",
		Outline: []Section{
			{Title: keyword + "란 무엇인가?", Subsections: []string{"기본 개념과 정의", "왜 중요한가?", "현재 시장 상황"}},
			{Title: keyword + " 선택 기준", Subsections: []string{"핵심 체크포인트", "가격대별 비교", "브랜드별 특징"}},
			{Title: "추천 " + keyword + " TOP 5", Subsections: []string{"1위: 가성비 최고 제품", "2위: 프리미엄 제품", "3위: 초보자용 제품"}},
			{Title: keyword + " 활용 팁", Subsections: []string{"초보자가 알아야 할 것들", "고급 활용법", "주의사항과 문제 해결"}},
			{Title: "결론 및 추천사항", Subsections: []string{"상황별 추천", "구매 전 마지막 체크리스트", "자주 묻는 질문"}},
		},
	}
}
