package naver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/valyala/fasthttp"

	"keyword-scout/pkg/retry"
)

const keywordToolPath = "/keywordstool"

type keywordToolResponse struct {
	KeywordList []struct {
		RelKeyword             string     `json:"relKeyword"`
		MonthlyPcQcCnt         flexNumber `json:"monthlyPcQcCnt"`
		MonthlyMobileQcCnt     flexNumber `json:"monthlyMobileQcCnt"`
		MonthlyAvePcClkCnt     flexNumber `json:"monthlyAvePcClkCnt"`
		MonthlyAveMobileClkCnt flexNumber `json:"monthlyAveMobileClkCnt"`
		CompIdx                string     `json:"compIdx"`
	} `json:"keywordList"`
}

// Sign computes the search ad API signature: base64 HMAC-SHA256 of
// "timestamp.method.uri" keyed by the secret.
func Sign(timestamp, method, uri, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "." + method + "." + uri))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// KeywordTool returns keyword statistics for keyword and its related
// keywords. The first row describes keyword itself.
func (c *Client) KeywordTool(ctx context.Context, keyword string) ([]KeywordStat, error) {
	if !c.cfg.HasSearchAd() {
		return nil, fmt.Errorf("keywordstool: %w", ErrMissingCredentials)
	}

	var stats []KeywordStat
	err := c.do(ctx, "keywordstool", func(req *fasthttp.Request) {
		timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
		req.SetRequestURI(c.cfg.SearchAdURL + keywordToolPath)
		req.Header.SetMethod(fasthttp.MethodGet)
		args := req.URI().QueryArgs()
		args.Set("hintKeywords", APIKeyword(keyword))
		args.Set("showDetail", "1")
		req.Header.Set("X-Timestamp", timestamp)
		req.Header.Set("X-API-KEY", c.cfg.AdAPIKey)
		req.Header.Set("X-Customer", c.cfg.AdCustomerID)
		req.Header.Set("X-Signature", Sign(timestamp, fasthttp.MethodGet, keywordToolPath, c.cfg.AdSecretKey))
	}, func(raw []byte) error {
		var resp keywordToolResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode keywordstool response: %w", err))
		}
		if len(resp.KeywordList) == 0 {
			return retry.Permanent(fmt.Errorf("keywordstool: %w", ErrEmptyResponse))
		}
		stats = make([]KeywordStat, 0, len(resp.KeywordList))
		for _, k := range resp.KeywordList {
			comp := k.CompIdx
			if comp == "" {
				comp = "N/A"
			}
			stats = append(stats, KeywordStat{
				Keyword:          k.RelKeyword,
				PCCount:          int(k.MonthlyPcQcCnt),
				MobileCount:      int(k.MonthlyMobileQcCnt),
				AvgPCClicks:      float64(k.MonthlyAvePcClkCnt),
				AvgMobileClicks:  float64(k.MonthlyAveMobileClkCnt),
				CompetitionIndex: comp,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
