// Package servecmder provides the serve command that runs the matchvision
// API server.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/matchvision/api"
	"github.com/papercomputeco/matchvision/api/mcp"
	"github.com/papercomputeco/matchvision/cmd/matchvision/shared"
	"github.com/papercomputeco/matchvision/pkg/chat"
	"github.com/papercomputeco/matchvision/pkg/config"
	"github.com/papercomputeco/matchvision/pkg/logger"
	"github.com/papercomputeco/matchvision/pkg/prediction"
)

type ServeCommander struct {
	listen       string
	gatewayURL   string
	model        string
	footballURL  string
	league       int
	allowOrigins string
	logFormat    string
	logFile      string
	noMCP        bool
	debug        bool

	logger *slog.Logger
}

const serveLongDesc string = `Run the MatchVision API server.

The server backs the web app and the CLI relay mode:
  POST /functions/v1/football-api    Allow-listed API-Football proxy
  POST /functions/v1/predict-match   Match prediction
  POST /functions/v1/chat            Streamed chat (text/event-stream)
  /mcp                               MCP tools: search_teams, predict_match

API keys are read from MATCHVISION_GATEWAY_API_KEY and
MATCHVISION_FOOTBALL_API_KEY.`

const serveShortDesc string = "Run the MatchVision API server"

var serveFlags = []string{
	config.FlagListen,
	config.FlagGatewayURL,
	config.FlagModel,
	config.FlagFootballURL,
	config.FlagLeague,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			v, err := shared.Settings(cmd, serveFlags...)
			if err != nil {
				return err
			}
			return cmder.run(v)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagGatewayURL, &cmder.gatewayURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagFootballURL, &cmder.footballURL)
	config.AddIntFlag(cmd, config.Flags, config.FlagLeague, &cmder.league)
	cmd.Flags().StringVar(&cmder.allowOrigins, "allow-origins", "*", "CORS allowed origins")
	cmd.Flags().StringVar(&cmder.logFormat, "log-format", string(logger.FormatPretty), "Console log format ("+strings.Join(logger.Formats(), ", ")+")")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Serve an MCP endpoint without tools")

	return cmd
}

func (c *ServeCommander) run(v *viper.Viper) error {
	var err error
	c.logger, err = c.newLogger()
	if err != nil {
		return err
	}

	server, err := c.newServer(v)
	if err != nil {
		return err
	}

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

func (c *ServeCommander) newLogger() (*slog.Logger, error) {
	format := logger.FormatPretty
	if c.logFormat != "" {
		var err error
		if format, err = logger.ParseFormat(c.logFormat); err != nil {
			return nil, err
		}
	}
	console := logger.New(logger.WithFormat(format), logger.WithDebug(c.debug))
	if c.logFile == "" {
		return console, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(logger.WithFormat(logger.FormatJSON), logger.WithDebug(c.debug), logger.WithWriter(f))
	return logger.Multi(console, file), nil
}

// newServer wires the upstream clients into the API and MCP servers.
func (c *ServeCommander) newServer(v *viper.Viper) (*api.Server, error) {
	if err := shared.RequireGatewayKey(v); err != nil {
		c.logger.Warn("predictions and chat will fail", "error", err)
	}
	if err := shared.RequireFootballKey(v); err != nil {
		c.logger.Warn("football data will fail", "error", err)
	}

	gw := shared.Gateway(v, "", c.logger)
	fb := shared.Football(v, c.logger)

	predictor := prediction.NewPredictor(gw, c.logger)
	service := prediction.NewService(fb, predictor, c.logger)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Teams:   fb,
		Matches: service,
		Noop:    c.noMCP,
		Logger:  c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	c.logger.Info("upstreams configured",
		"gateway", v.GetString(config.Flags[config.FlagGatewayURL].ViperKey),
		"model", gw.Model(),
		"football", v.GetString(config.Flags[config.FlagFootballURL].ViperKey),
	)

	return api.NewServer(api.Config{
		ListenAddr:   v.GetString(config.Flags[config.FlagListen].ViperKey),
		AllowOrigins: c.allowOrigins,
	}, api.Services{
		Football:  fb,
		Predictor: predictor,
		Chat:      gw.WithSystemPrompt(chat.SystemPrompt),
		MCP:       mcpServer.Handler(),
	}, c.logger)
}
