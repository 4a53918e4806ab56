package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"keyword-scout/internal/content"
	"keyword-scout/internal/research"
	"keyword-scout/pkg/scoring"
)

type fakeResearcher struct {
	lang language.Tag
	err  error
}

func (f *fakeResearcher) Analyze(_ context.Context, keyword string, lang language.Tag) (*research.Report, error) {
	f.lang = lang
	if f.err != nil {
		return nil, f.err
	}
	return &research.Report{Keyword: keyword, DataType: scoring.BasisTrend}, nil
}

type fakeTopics struct{}

func (fakeTopics) Generate(_ context.Context, keyword string, tone content.Tone) content.Topics {
	return content.Topics{Keyword: keyword, Tone: content.ParseTone(string(tone)), Titles: []string{"제목"}}
}

type fakeWriter struct {
	chunks    []string
	streamErr error
	got       content.ArticleRequest
}

func (f *fakeWriter) Write(_ context.Context, req content.ArticleRequest) (*content.Article, error) {
	f.got = req
	return &content.Article{Keyword: req.Keyword, Title: req.Title, Source: content.SourceGenerated}, nil
}

func (f *fakeWriter) Regenerate(_ context.Context, req content.ArticleRequest) (*content.Article, error) {
	f.got = req
	return &content.Article{Keyword: req.Keyword, Title: req.Title, Source: content.SourceRegenerated}, nil
}

func (f *fakeWriter) Stream(_ context.Context, req content.ArticleRequest, fn func(string) error) error {
	f.got = req
	for _, c := range f.chunks {
		if err := fn(c); err != nil {
			return err
		}
	}
	return f.streamErr
}

func newTestApp(r Researcher, w ArticleWriter) *fiber.App {
	return NewApp(AppConfig{}, New(r, fakeTopics{}, w))
}

func post(t *testing.T, app *fiber.App, path, body string, headers ...string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestSearch(t *testing.T) {
	r := &fakeResearcher{}
	app := newTestApp(r, &fakeWriter{})

	resp, body := post(t, app, "/api/search", `{"keyword":"캠핑"}`, "Accept-Language", "en-US")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	m := decode(t, body)
	assert.Equal(t, "캠핑", m["keyword"])
	assert.Equal(t, "trendOnly", m["dataType"])
	assert.Equal(t, language.English, r.lang)
}

func TestSearchValidation(t *testing.T) {
	app := newTestApp(&fakeResearcher{}, &fakeWriter{})

	resp, body := post(t, app, "/api/search", `{"keyword":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "키워드가 필요합니다", decode(t, body)["error"])

	resp, _ = post(t, app, "/api/search", `{"keyword":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchServerError(t *testing.T) {
	app := newTestApp(&fakeResearcher{err: errors.New("boom")}, &fakeWriter{})
	resp, body := post(t, app, "/api/search", `{"keyword":"캠핑"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "서버 오류: boom", decode(t, body)["error"])
}

func TestGenerateTopics(t *testing.T) {
	app := newTestApp(&fakeResearcher{}, &fakeWriter{})

	resp, body := post(t, app, "/api/generate-topics", `{"keyword":"캠핑","tone":"unknown"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	m := decode(t, body)
	assert.Equal(t, "informative", m["tone"])

	resp, _ = post(t, app, "/api/generate-topics", `{"tone":"review"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateArticle(t *testing.T) {
	w := &fakeWriter{}
	app := newTestApp(&fakeResearcher{}, w)

	body := `{"keyword":"캠핑","title":"캠핑 가이드","contentPlan":"준비물 정리","tone":"review"}`
	resp, data := post(t, app, "/api/generate-article", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "generated", decode(t, data)["source"])
	assert.Equal(t, "준비물 정리", w.got.ContentPlan.Content)

	resp, data = post(t, app, "/api/regenerate-article", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "regenerated", decode(t, data)["source"])

	resp, data = post(t, app, "/api/generate-article", `{"keyword":"캠핑"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "키워드, 제목, 콘텐츠 기획이 필요합니다", decode(t, data)["error"])
}

func sseEvents(t *testing.T, body []byte) []map[string]interface{} {
	t.Helper()
	var events []map[string]interface{}
	for _, frame := range strings.Split(strings.TrimSpace(string(body)), "\n\n") {
		require.True(t, strings.HasPrefix(frame, "data: "), "frame %q", frame)
		events = append(events, decode(t, []byte(strings.TrimPrefix(frame, "data: "))))
	}
	return events
}

func TestGenerateArticleStream(t *testing.T) {
	w := &fakeWriter{chunks: []string{"# 제목", "\n본문"}}
	app := newTestApp(&fakeResearcher{}, w)

	body := `{"keyword":"캠핑","title":"캠핑 가이드","outline":[{"title":"도입"}]}`
	resp, data := post(t, app, "/api/generate-article-stream", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	events := sseEvents(t, data)
	require.Len(t, events, 4)
	assert.Equal(t, map[string]interface{}{"content": "", "status": "starting"}, events[0])
	assert.Equal(t, map[string]interface{}{"content": "# 제목", "done": false}, events[1])
	assert.Equal(t, map[string]interface{}{"content": "\n본문", "done": false}, events[2])
	assert.Equal(t, map[string]interface{}{"content": "", "done": true}, events[3])

	assert.Equal(t, content.PlanTypeOutline, w.got.ContentPlan.Type)
	assert.Equal(t, "도입", w.got.ContentPlan.Outline[0].Title)
}

func TestGenerateArticleStreamError(t *testing.T) {
	w := &fakeWriter{chunks: []string{"부분"}, streamErr: errors.New("quota exceeded")}
	app := newTestApp(&fakeResearcher{}, w)

	body := `{"keyword":"캠핑","title":"캠핑 가이드","contentPlan":"계획"}`
	resp, data := post(t, app, "/api/generate-article-stream", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := sseEvents(t, data)
	require.Len(t, events, 3)
	last := events[2]
	assert.Equal(t, true, last["error"])
	assert.Equal(t, "오류: quota exceeded", last["content"])
}

func TestGenerateArticleStreamMissingFields(t *testing.T) {
	app := newTestApp(&fakeResearcher{}, &fakeWriter{})
	resp, data := post(t, app, "/api/generate-article-stream", `{"keyword":"캠핑"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "누락된 데이터: title, contentPlan", decode(t, data)["error"])
}

func TestHealthAndUnavailable(t *testing.T) {
	app := NewApp(AppConfig{}, New(nil, nil, nil).WithFeatures(map[string]bool{"naver": false}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	r, _ := post(t, app, "/api/search", `{"keyword":"캠핑"}`)
	assert.Equal(t, http.StatusServiceUnavailable, r.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(&fakeResearcher{}, &fakeWriter{})
	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
