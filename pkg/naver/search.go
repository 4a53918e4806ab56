package naver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valyala/fasthttp"

	"keyword-scout/pkg/retry"
)

const (
	blogPath = "/v1/search/blog.json"
	cafePath = "/v1/search/cafearticle.json"

	searchDisplay = 10
)

type searchResponse struct {
	Total int `json:"total"`
	Items []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		PostDate    string `json:"postdate"`
		DateTime    string `json:"datetime"`
		Date        string `json:"date"`
		PubDate     string `json:"pubDate"`
	} `json:"items"`
}

// Blog returns the blog hit count and the first page of posts.
func (c *Client) Blog(ctx context.Context, keyword string) (*SearchResult, error) {
	return c.search(ctx, "blog_search", blogPath, keyword)
}

// Cafe returns the cafe article hit count and the first page of posts.
func (c *Client) Cafe(ctx context.Context, keyword string) (*SearchResult, error) {
	return c.search(ctx, "cafe_search", cafePath, keyword)
}

func (c *Client) search(ctx context.Context, service, path, keyword string) (*SearchResult, error) {
	if !c.cfg.HasOpenAPI() {
		return nil, fmt.Errorf("%s: %w", service, ErrMissingCredentials)
	}

	var result *SearchResult
	err := c.do(ctx, service, func(req *fasthttp.Request) {
		req.SetRequestURI(c.cfg.OpenAPIURL + path)
		req.Header.SetMethod(fasthttp.MethodGet)
		args := req.URI().QueryArgs()
		args.Set("query", APIKeyword(keyword))
		args.SetUint("display", searchDisplay)
		args.Set("sort", "sim")
		c.setOpenAPIHeaders(req)
	}, func(raw []byte) error {
		var resp searchResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode %s response: %w", service, err))
		}
		result = &SearchResult{Total: resp.Total, Posts: make([]Post, 0, len(resp.Items))}
		for _, item := range resp.Items {
			result.Posts = append(result.Posts, Post{
				Title:       item.Title,
				Description: item.Description,
				Link:        item.Link,
				Date:        NormalizeDate(firstNonEmpty(item.DateTime, item.PostDate, item.Date, item.PubDate)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
