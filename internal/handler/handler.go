// Package handler exposes keyword research and content generation over
// HTTP with fiber.
package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"keyword-scout/internal/content"
	"keyword-scout/internal/present"
	"keyword-scout/internal/research"
	"keyword-scout/pkg/logger"
)

const (
	msgKeywordRequired = "키워드가 필요합니다"
	msgArticleRequired = "키워드, 제목, 콘텐츠 기획이 필요합니다"
	msgInvalidBody     = "잘못된 요청 형식입니다"
	msgMissingPrefix   = "누락된 데이터: "
	msgServerError     = "서버 오류: "
)

type Handler struct {
	research      Researcher
	topics        TopicSource
	writer        ArticleWriter
	streamTimeout time.Duration
	features      map[string]bool
	log           *logger.Logger
}

func New(researcher Researcher, topics TopicSource, writer ArticleWriter) *Handler {
	return &Handler{
		research:      researcher,
		topics:        topics,
		writer:        writer,
		streamTimeout: 5 * time.Minute,
		features:      map[string]bool{},
		log:           logger.GetLogger().WithField("component", "handler"),
	}
}

// WithStreamTimeout bounds how long one article stream may run.
func (h *Handler) WithStreamTimeout(d time.Duration) *Handler {
	if d > 0 {
		h.streamTimeout = d
	}
	return h
}

// WithFeatures sets the flags reported by /healthz.
func (h *Handler) WithFeatures(features map[string]bool) *Handler {
	h.features = features
	return h
}

// Register mounts every route on app.
func (h *Handler) Register(app fiber.Router) {
	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Post("/search", h.Search)
	api.Post("/generate-topics", h.GenerateTopics)
	api.Post("/generate-article", h.GenerateArticle)
	api.Post("/regenerate-article", h.RegenerateArticle)
	api.Post("/generate-article-stream", h.GenerateArticleStream)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"features": h.features,
	})
}

type searchRequest struct {
	Keyword string `json:"keyword"`
}

// Search handles POST /api/search.
func (h *Handler) Search(c *fiber.Ctx) error {
	if h.research == nil {
		return fiber.ErrServiceUnavailable
	}
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	if strings.TrimSpace(req.Keyword) == "" {
		return badRequest(c, msgKeywordRequired)
	}

	lang := present.Lang(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage))
	report, err := h.research.Analyze(c.UserContext(), req.Keyword, lang)
	if err != nil {
		if errors.Is(err, research.ErrEmptyKeyword) {
			return badRequest(c, msgKeywordRequired)
		}
		return h.serverError(c, "search", err)
	}
	return c.JSON(report)
}

type topicsRequest struct {
	Keyword string       `json:"keyword"`
	Tone    content.Tone `json:"tone"`
}

// GenerateTopics handles POST /api/generate-topics.
func (h *Handler) GenerateTopics(c *fiber.Ctx) error {
	if h.topics == nil {
		return fiber.ErrServiceUnavailable
	}
	var req topicsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return badRequest(c, msgKeywordRequired)
	}
	return c.JSON(h.topics.Generate(c.UserContext(), keyword, req.Tone))
}

// GenerateArticle handles POST /api/generate-article.
func (h *Handler) GenerateArticle(c *fiber.Ctx) error {
	return h.article(c, false)
}

// RegenerateArticle handles POST /api/regenerate-article.
func (h *Handler) RegenerateArticle(c *fiber.Ctx) error {
	return h.article(c, true)
}

func (h *Handler) article(c *fiber.Ctx, regenerate bool) error {
	if h.writer == nil {
		return fiber.ErrServiceUnavailable
	}
	var req content.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	if len(req.Missing()) > 0 {
		return badRequest(c, msgArticleRequired)
	}

	write := h.writer.Write
	if regenerate {
		write = h.writer.Regenerate
	}
	article, err := write(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, content.ErrIncompleteRequest) {
			return badRequest(c, msgArticleRequired)
		}
		return h.serverError(c, "article", err)
	}
	return c.JSON(article)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func (h *Handler) serverError(c *fiber.Ctx, route string, err error) error {
	h.log.WithError(err).WithFields(map[string]interface{}{
		"route":      route,
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	}).Error("Request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgServerError + err.Error()})
}
