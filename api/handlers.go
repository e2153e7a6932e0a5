package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/llm/gateway"
	"github.com/papercomputeco/matchvision/pkg/prediction"
)

const (
	rateLimitedMessage      = "Rate limited. Please try again shortly."
	creditsExhaustedMessage = "AI credits exhausted."
)

// FootballRequest is the body of the football-api route.
type FootballRequest struct {
	Endpoint string         `json:"endpoint"`
	Params   map[string]any `json:"params"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleFootball forwards an allowlisted call to the football API and
// returns the upstream JSON untouched.
func (s *Server) handleFootball(c *fiber.Ctx) error {
	var req FootballRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	raw, err := s.services.Football.Call(c.Context(), req.Endpoint, req.Params)
	if err != nil {
		if errors.Is(err, football.ErrUnknownEndpoint) {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "Invalid endpoint"})
		}

		s.logger.Error("football api call failed",
			"request_id", requestID(c),
			"endpoint", req.Endpoint,
			"error", err,
		)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// handlePredict runs a prediction for the posted fixture data.
func (s *Server) handlePredict(c *fiber.Ctx) error {
	var in prediction.Input
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	if in.HomeTeam.Name == "" || in.AwayTeam.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "homeTeam and awayTeam are required"})
	}

	result, err := s.services.Predictor.Predict(c.Context(), in)
	if err != nil {
		s.logger.Error("predict-match failed",
			"request_id", requestID(c),
			"home", in.HomeTeam.Name,
			"away", in.AwayTeam.Name,
			"error", err,
		)
		return s.gatewayError(c, err)
	}

	return c.JSON(result)
}

// gatewayError maps a gateway failure to the response the web client
// expects.
func (s *Server) gatewayError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gateway.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(llm.ErrorResponse{Error: rateLimitedMessage})
	case errors.Is(err, gateway.ErrCreditsExhausted):
		return c.Status(fiber.StatusPaymentRequired).JSON(llm.ErrorResponse{Error: creditsExhaustedMessage})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
	}
}
