// Package chatcmder provides the chat command, an interactive football
// assistant that streams replies into the terminal.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/matchvision/cmd/matchvision/shared"
	"github.com/papercomputeco/matchvision/pkg/chat"
	"github.com/papercomputeco/matchvision/pkg/cliui"
	"github.com/papercomputeco/matchvision/pkg/config"
	"github.com/papercomputeco/matchvision/pkg/logger"
)

type ChatCommander struct {
	serverTarget string
	gatewayURL   string
	model        string
	direct       bool
	debug        bool

	logger *slog.Logger

	// printer renders the turn in progress.
	printer *streamPrinter
}

const chatLongDesc string = `Chat with the MatchVision football assistant.

Replies stream in as they are generated. By default messages are relayed
through a running matchvision server (--server-target). Use --direct to
talk to the LLM gateway yourself; this needs MATCHVISION_GATEWAY_API_KEY.

Commands inside the chat:
  /reset    Start a new conversation
  /exit     Quit

Examples:
  matchvision chat
  matchvision chat --direct --model openai/gpt-5-mini
  echo "Who won the 2005 Champions League?" | matchvision chat`

const chatShortDesc string = "Chat with the football assistant"

var chatFlags = []string{
	config.FlagServerTarget,
	config.FlagGatewayURL,
	config.FlagModel,
}

const (
	exitCommand  = "/exit"
	quitCommand  = "/quit"
	resetCommand = "/reset"
)

func NewChatCmd() *cobra.Command {
	cmder := &ChatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			v, err := shared.Settings(cmd, chatFlags...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return cmder.run(ctx, v, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagServerTarget, &cmder.serverTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagGatewayURL, &cmder.gatewayURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	cmd.Flags().BoolVar(&cmder.direct, "direct", false, "Talk to the LLM gateway directly instead of a matchvision server")

	return cmd
}

func (c *ChatCommander) run(ctx context.Context, v *viper.Viper, in io.Reader, out io.Writer) error {
	c.logger = logger.ForCLI(c.debug)

	opener, err := c.newOpener(v)
	if err != nil {
		return err
	}

	return c.repl(ctx, c.newSession(opener), in, out)
}

func (c *ChatCommander) newSession(opener chat.Opener) *chat.Session {
	client := chat.NewClient(opener,
		chat.WithLogger(c.logger),
		chat.WithFailureHook(func(err error) {
			if c.printer != nil {
				c.printer.Fail(err)
			}
		}),
	)
	return chat.NewSession(client)
}

// newOpener picks the upstream: the gateway in direct mode, otherwise the
// relay route of a matchvision server.
func (c *ChatCommander) newOpener(v *viper.Viper) (chat.Opener, error) {
	target := v.GetString(config.Flags[config.FlagServerTarget].ViperKey)
	if c.direct || target == "" {
		if err := shared.RequireGatewayKey(v); err != nil {
			return nil, err
		}
		return shared.Gateway(v, chat.SystemPrompt, c.logger), nil
	}

	c.logger.Debug("relaying chat", "target", target)
	return chat.NewRelayOpener(target, nil), nil
}

func (c *ChatCommander) repl(ctx context.Context, session *chat.Session, in io.Reader, out io.Writer) error {
	interactive := shared.IsTerminal(in)
	if interactive {
		fmt.Fprintf(out, "%s\n\n", cliui.DimStyle.Render("Ask about teams, players, tactics or upcoming matches. /reset starts over, /exit quits."))
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, cliui.UserPrompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case exitCommand, quitCommand:
			return nil
		case resetCommand:
			session.Reset()
			fmt.Fprintf(out, "  %s New conversation %s\n\n", cliui.SuccessMark, cliui.IDStyle.Render(session.ID))
			continue
		}

		c.turn(ctx, session, line, out, interactive)
		if ctx.Err() != nil {
			return nil
		}
	}

	return scanner.Err()
}

func (c *ChatCommander) turn(ctx context.Context, session *chat.Session, text string, out io.Writer, interactive bool) {
	if interactive {
		fmt.Fprint(out, cliui.AssistantPrompt)
	}

	c.printer = newStreamPrinter(out, len(session.Messages())+1)
	defer func() { c.printer = nil }()

	for snapshot := range session.Send(ctx, text) {
		c.printer.Print(snapshot)
	}
	fmt.Fprint(out, "\n\n")

	c.logger.Debug("turn finished", "session", session.ID, "messages", len(session.Messages()))
}
