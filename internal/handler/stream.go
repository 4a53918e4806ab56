package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"keyword-scout/internal/content"
)

// streamRequest is an ArticleRequest that also accepts the plan under
// "outline".
type streamRequest struct {
	content.ArticleRequest
	Outline content.ContentPlan `json:"outline"`
}

// GenerateArticleStream handles POST /api/generate-article-stream as
// server-sent events.
func (h *Handler) GenerateArticleStream(c *fiber.Ctx) error {
	if h.writer == nil {
		return fiber.ErrServiceUnavailable
	}
	var body streamRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	req := body.ArticleRequest
	if req.ContentPlan.Empty() && !body.Outline.Empty() {
		req.ContentPlan = body.Outline
	}
	if missing := req.Missing(); len(missing) > 0 {
		return badRequest(c, msgMissingPrefix+strings.Join(missing, ", "))
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	log := h.log.WithFields(map[string]interface{}{
		"keyword":    req.Keyword,
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	})
	timeout := h.streamTimeout

	// The writer runs after the handler returns, so it cannot use the
	// request context.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := writeEvent(w, fiber.Map{"content": "", "status": "starting"}); err != nil {
			return
		}
		chunks := 0
		err := h.writer.Stream(ctx, req, func(chunk string) error {
			chunks++
			return writeEvent(w, fiber.Map{"content": chunk, "done": false})
		})
		if err != nil {
			log.WithError(err).WithField("chunks", chunks).Warn("Article stream failed")
			_ = writeEvent(w, fiber.Map{"content": "오류: " + err.Error(), "error": true})
			return
		}
		_ = writeEvent(w, fiber.Map{"content": "", "done": true})
		log.WithField("chunks", chunks).Info("Article streamed")
	})
	return nil
}

// writeEvent writes one data frame and flushes it. A flush error means the
// client went away.
func writeEvent(w *bufio.Writer, payload fiber.Map) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
