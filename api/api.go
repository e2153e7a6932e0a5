package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/papercomputeco/matchvision/pkg/chat"
	"github.com/papercomputeco/matchvision/pkg/prediction"
)

const (
	footballPath = "/functions/v1/football-api"
	predictPath  = "/functions/v1/predict-match"
	chatPath     = chat.RelayPath
	mcpPath      = "/mcp"

	requestIDHeader = "X-Request-Id"
	requestIDKey    = "requestid"
)

// allowHeaders mirrors the headers the hosted web client sends.
const allowHeaders = "authorization, x-client-info, apikey, content-type, x-supabase-client-platform, x-supabase-client-platform-version, x-supabase-client-runtime, x-supabase-client-runtime-version"

// FootballAPI is the pass-through football data call. *football.Client
// satisfies it.
type FootballAPI interface {
	Call(ctx context.Context, endpoint string, params map[string]any) (json.RawMessage, error)
}

// Predictor turns a fixture into a prediction. *prediction.Predictor
// satisfies it.
type Predictor interface {
	Predict(ctx context.Context, in prediction.Input) (*prediction.Prediction, error)
}

// Services are the collaborators behind the routes.
type Services struct {
	Football  FootballAPI
	Predictor Predictor

	// Chat opens upstream chat streams, usually a *gateway.Client.
	Chat chat.Opener

	// MCP is mounted at /mcp when set.
	MCP http.Handler
}

// Server is the matchvision API server.
type Server struct {
	config   Config
	services Services
	logger   *slog.Logger
	app      *fiber.App
}

// NewServer creates a new API server.
func NewServer(config Config, services Services, logger *slog.Logger) (*Server, error) {
	if services.Football == nil {
		return nil, errors.New("football api is required")
	}
	if services.Predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if services.Chat == nil {
		return nil, errors.New("chat opener is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	allowOrigins := config.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		services: services,
		logger:   logger,
		app:      app,
	}

	app.Use(requestid.New(requestid.Config{
		Header:     requestIDHeader,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(s.logRequests)
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: allowHeaders,
		AllowMethods: "GET,POST,OPTIONS",
	}))

	// Compression would hold back streamed chat chunks.
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == chatPath
		},
	}))

	app.Get("/ping", s.handlePing)
	app.Post(footballPath, s.handleFootball)
	app.Post(predictPath, s.handlePredict)
	app.Post(chatPath, s.handleChat)

	if services.MCP != nil {
		app.All(mcpPath, adaptor.HTTPHandler(services.MCP))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Debug("request handled",
		"request_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
