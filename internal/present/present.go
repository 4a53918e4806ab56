// Package present turns scoring results into display text. The scoring
// core only emits codes and numbers; wording lives here.
package present

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"keyword-scout/pkg/scoring"
)

var (
	supported = []language.Tag{language.Korean, language.English}
	matcher   = language.NewMatcher(supported)
)

// Lang resolves an Accept-Language header or a lang query value. Korean is
// the default.
func Lang(preferences ...string) language.Tag {
	tag, _ := language.MatchStrings(matcher, preferences...)
	base, _ := tag.Base()
	if base.String() == "en" {
		return language.English
	}
	return language.Korean
}

var recommendations = map[scoring.Recommendation][2]string{
	scoring.RecBlueOcean:        {"경쟁이 없는 블루오션! 즉시 콘텐츠를 만드세요!", "Blue ocean with no competition. Publish right away!"},
	scoring.RecNoSearchVolume:   {"검색량이 없습니다.", "No search volume."},
	scoring.RecNoTrendData:      {"검색 트렌드 데이터가 부족합니다.", "Not enough search trend data."},
	scoring.RecLowTrend:         {"검색 트렌드가 낮거나 데이터를 가져올 수 없습니다.", "Search trend is low or unavailable."},
	scoring.RecComputationError: {"계산 중 오류가 발생했습니다.", "An error occurred during calculation."},

	scoring.RecVolumeExcellent: {"매우 좋은 기회! 월간 발행량 대비 검색량이 높습니다", "Excellent opportunity! Searches far exceed monthly posts"},
	scoring.RecGood:            {"좋은 기회입니다. 콘텐츠 제작을 권장합니다", "Good opportunity. Content creation is recommended"},
	scoring.RecModerate:        {"적당한 기회입니다. 차별화된 콘텐츠로 접근하세요", "Moderate opportunity. Stand out with differentiated content"},
	scoring.RecWorthTrying:     {"경쟁이 있지만 시도해볼 만합니다", "Competitive but worth trying"},
	scoring.RecVolumeFierce:    {"치열한 경쟁입니다", "Fierce competition"},
	scoring.RecVolumeSaturated: {"포화 상태입니다", "Saturated"},

	scoring.RecTrendExcellent: {"매우 좋은 기회! 트렌드 대비 월간 발행량이 적습니다", "Excellent opportunity! Few monthly posts for the trend"},
	scoring.RecTrendFierce:    {"치열한 경쟁. 매우 독창적인 콘텐츠가 필요합니다", "Fierce competition. Highly original content is needed"},
	scoring.RecTrendSaturated: {"포화 상태. 다른 키워드를 고려해보세요", "Saturated. Consider another keyword"},
}

// Recommendation returns the advice text for code in lang.
func Recommendation(code scoring.Recommendation, lang language.Tag) string {
	texts, ok := recommendations[code]
	if !ok {
		return string(code)
	}
	if lang == language.English {
		return texts[1]
	}
	return texts[0]
}

// Analysis is the display form of an OpportunityResult.
type Analysis struct {
	Score          string `json:"opportunityScore"`
	Grade          string `json:"grade"`
	Saturation     string `json:"saturation"`
	Demand         string `json:"demand"`
	PCSearches     string `json:"pcSearches,omitempty"`
	MobileSearches string `json:"mobileSearches,omitempty"`
	ContentCount   string `json:"contentCount"`
	MonthlyContent string `json:"monthlyContent"`
	Recommendation string `json:"recommendation"`
}

// Describe formats r for display. volume is only used for the PC and
// mobile breakdown and may be nil.
func Describe(r scoring.OpportunityResult, contentCount int, volume *scoring.SearchVolume, lang language.Tag) Analysis {
	p := message.NewPrinter(lang)
	a := Analysis{
		Score:          metric(r.Score, lang, ""),
		Grade:          string(r.Grade),
		Saturation:     metric(r.Saturation, lang, "%"),
		MonthlyContent: p.Sprintf("%.0f", r.MonthlyContent),
		Recommendation: Recommendation(r.Recommendation, lang),
	}

	if lang == language.English {
		a.ContentCount = p.Sprintf("%d posts", contentCount)
	} else {
		a.ContentCount = p.Sprintf("%d개", contentCount)
	}

	switch r.Basis {
	case scoring.BasisVolume:
		a.Demand = p.Sprintf("%d", int(r.Demand))
		if volume != nil {
			a.PCSearches = p.Sprintf("%d", volume.PCCount)
			a.MobileSearches = p.Sprintf("%d", volume.MobileCount)
		}
	default:
		a.Demand = strconv.FormatFloat(r.Demand, 'f', -1, 64) + "%"
	}
	return a
}

var sentinels = map[scoring.MetricKind][2]string{
	scoring.MetricInfinite:         {"무한대", "infinite"},
	scoring.MetricNotApplicable:    {"N/A", "N/A"},
	scoring.MetricInsufficientData: {"데이터 부족", "insufficient data"},
	scoring.MetricError:            {"오류", "error"},
}

func metric(m scoring.Metric, lang language.Tag, unit string) string {
	if m.IsValue() {
		return strconv.FormatFloat(m.Value, 'f', -1, 64) + unit
	}
	texts := sentinels[m.Kind]
	if lang == language.English {
		return texts[1]
	}
	return texts[0]
}
