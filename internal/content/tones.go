package content

import "strings"

// Tone selects the writing persona.
type Tone string

const (
	ToneInformative  Tone = "informative"
	ToneReview       Tone = "review"
	ToneFriendly     Tone = "friendly"
	ToneExpert       Tone = "expert"
	ToneStorytelling Tone = "storytelling"
	ToneComparison   Tone = "comparison"
)

type toneProfile struct {
	persona     string
	description string
	style       string
	reader      string
	approach    string
}

var toneProfiles = map[Tone]toneProfile{
	ToneInformative: {
		persona:     "당신은 객관적이고 전문적인 정보를 전달하는 전문가입니다. 신뢰할 수 있고 정확한 정보 제공에 중점을 둡니다.",
		description: "객관적이고 신뢰할 수 있는 정보 전달 중심",
		style:       "객관적이고 정확한 정보를 체계적으로 전달하는 스타일",
		reader:      "정보를 찾는 일반 독자",
		approach:    "전문 용어를 적절히 사용하되 이해하기 쉽게 설명",
	},
	ToneReview: {
		persona:     "당신은 개인 경험과 솔직한 후기를 바탕으로 실용적인 조언을 제공하는 리뷰어입니다. 장단점을 균형있게 다룹니다.",
		description: "실제 경험 바탕의 솔직한 후기와 평가",
		style:       "개인 경험을 바탕으로 솔직하고 구체적인 후기를 작성하는 스타일",
		reader:      "구매나 선택을 고민하는 독자",
		approach:    "장단점을 균형있게 다루고 실용적인 조언 제공",
	},
	ToneFriendly: {
		persona:     "당신은 친구에게 설명하듯 편안하고 친근한 말투로 쉽게 이해할 수 있도록 설명하는 가이드입니다.",
		description: "친구처럼 편안하고 이해하기 쉬운 설명",
		style:       "친구에게 말하듯 친근하고 편안한 말투",
		reader:      "초보자나 일반인",
		approach:    "어려운 내용도 쉽게 풀어서 설명하고 공감대 형성",
	},
	ToneExpert: {
		persona:     "당신은 해당 분야의 깊은 전문 지식을 가진 전문가로서 심도 있는 분석과 인사이트를 제공합니다.",
		description: "전문가 수준의 깊이 있는 분석과 인사이트",
		style:       "전문가 수준의 깊이 있는 분석과 인사이트",
		reader:      "해당 분야의 전문가나 심화 학습자",
		approach:    "근거를 제시하고 논리적으로 설명하는 권위 있는 톤",
	},
	ToneStorytelling: {
		persona:     "당신은 이야기를 통해 독자의 흥미를 끌고 몰입감 있게 정보를 전달하는 스토리텔러입니다.",
		description: "흥미롭고 몰입감 있는 스토리텔링",
		style:       "이야기 형식으로 흥미롭게 풀어내는 스타일",
		reader:      "재미있고 몰입감 있는 콘텐츠를 원하는 독자",
		approach:    "상황 설정과 감정적 어필을 활용한 스토리텔링",
	},
	ToneComparison: {
		persona:     "당신은 여러 옵션을 체계적으로 비교 분석하여 독자의 선택을 돕는 분석 전문가입니다.",
		description: "체계적인 비교 분석을 통한 선택 가이드",
		style:       "여러 옵션을 체계적으로 비교 분석하는 스타일",
		reader:      "선택이나 결정을 위해 비교 정보가 필요한 독자",
		approach:    "표나 항목별 비교를 통해 명확한 차이점 제시",
	},
}

// ParseTone maps a request value to a known tone; anything else is
// informative.
func ParseTone(s string) Tone {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := toneProfiles[t]; ok {
		return t
	}
	return ToneInformative
}

// Tones lists the supported tones.
func Tones() []Tone {
	return []Tone{ToneInformative, ToneReview, ToneFriendly, ToneExpert, ToneStorytelling, ToneComparison}
}

func (t Tone) profile() toneProfile {
	if p, ok := toneProfiles[t]; ok {
		return p
	}
	return toneProfiles[ToneInformative]
}

// Description is the short Korean label of the tone.
func (t Tone) Description() string {
	return t.profile().description
}
