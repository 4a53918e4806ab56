package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"keyword-scout/pkg/retry"
	"keyword-scout/pkg/scoring"
)

const datalabPath = "/v1/datalab/search"

type datalabKeywordGroup struct {
	GroupName string   `json:"groupName"`
	Keywords  []string `json:"keywords"`
}

type datalabRequest struct {
	StartDate     string                `json:"startDate"`
	EndDate       string                `json:"endDate"`
	TimeUnit      string                `json:"timeUnit"`
	KeywordGroups []datalabKeywordGroup `json:"keywordGroups"`
}

type datalabResponse struct {
	Results []struct {
		Title string `json:"title"`
		Data  []struct {
			Period string  `json:"period"`
			Ratio  float64 `json:"ratio"`
		} `json:"data"`
	} `json:"results"`
}

// SearchTrend returns the monthly interest series between start and end.
// Period labels are shortened to YYYY-MM.
func (c *Client) SearchTrend(ctx context.Context, keyword string, start, end time.Time) (scoring.TrendSeries, error) {
	if !c.cfg.HasOpenAPI() {
		return nil, fmt.Errorf("datalab: %w", ErrMissingCredentials)
	}

	apiKeyword := APIKeyword(keyword)
	body, err := json.Marshal(datalabRequest{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		TimeUnit:  "month",
		KeywordGroups: []datalabKeywordGroup{
			{GroupName: apiKeyword, Keywords: []string{apiKeyword}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode datalab request: %w", err)
	}

	var series scoring.TrendSeries
	err = c.do(ctx, "datalab", func(req *fasthttp.Request) {
		req.SetRequestURI(c.cfg.OpenAPIURL + datalabPath)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		c.setOpenAPIHeaders(req)
		req.SetBody(body)
	}, func(raw []byte) error {
		var resp datalabResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode datalab response: %w", err))
		}
		if len(resp.Results) == 0 {
			return retry.Permanent(fmt.Errorf("datalab: %w", ErrEmptyResponse))
		}
		series = make(scoring.TrendSeries, 0, len(resp.Results[0].Data))
		for _, p := range resp.Results[0].Data {
			period := p.Period
			if len(period) > 7 {
				period = period[:7]
			}
			series = append(series, scoring.TrendPoint{Period: period, Ratio: p.Ratio})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (c *Client) setOpenAPIHeaders(req *fasthttp.Request) {
	req.Header.Set("X-Naver-Client-Id", c.cfg.ClientID)
	req.Header.Set("X-Naver-Client-Secret", c.cfg.ClientSecret)
}
