package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/sse"
)

// handleChat relays a streamed chat completion to the client byte for byte.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req llm.ChatTurnRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "messages are required"})
	}
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid message role: " + string(m.Role)})
		}
	}

	// Use context.Background() instead of c.Context() because fasthttp
	// recycles its RequestCtx after the handler returns, while the relay
	// goroutine keeps reading the upstream stream.
	body, err := s.services.Chat.OpenStream(context.Background(), req.Messages)
	if err != nil {
		s.logger.Error("opening upstream chat stream",
			"request_id", requestID(c),
			"error", err,
		)
		return s.gatewayError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	// io.Pipe gives per-chunk backpressure: pw.Write blocks until fasthttp's
	// chunked body writer has consumed the data.
	pr, pw := io.Pipe()
	go s.relayStream(requestID(c), body, pw)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)
	return nil
}

// relayStream tees the upstream body into pw while decoding it, so the
// forwarded bytes stay verbatim and the relayed content can still be logged.
func (s *Server) relayStream(reqID string, body io.ReadCloser, pw *io.PipeWriter) {
	defer body.Close()

	start := time.Now()
	tr := sse.NewTeeReader(body, pw, sse.WithLogger(s.logger))

	fragments, contentBytes := 0, 0
	for {
		fragment, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Error("relaying chat stream",
				"request_id", reqID,
				"fragments", fragments,
				"error", err,
			)
			pw.CloseWithError(err)
			return
		}
		fragments++
		contentBytes += len(fragment)
	}

	// Forward anything after [DONE] untouched.
	if _, err := tr.Drain(); err != nil {
		s.logger.Debug("draining chat stream", "request_id", reqID, "error", err)
	}
	pw.Close()

	s.logger.Debug("chat stream relayed",
		"request_id", reqID,
		"fragments", fragments,
		"content_bytes", contentBytes,
		"done_sentinel", tr.Done(),
		"duration", time.Since(start),
	)
}
