// Package chat runs streamed chat turns: it opens a completion stream,
// decodes it with pkg/sse and merges the fragments into a transcript,
// yielding a snapshot after every change.
package chat

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/papercomputeco/matchvision/pkg/conversation"
	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/logger"
	"github.com/papercomputeco/matchvision/pkg/sse"
)

// SystemPrompt is prepended to chat requests sent straight to the gateway.
const SystemPrompt = `You are MatchVision AI, a friendly football expert. Answer questions about teams, players, tactics, form and upcoming matches. Keep answers concise and use markdown for lists and emphasis. If you are unsure about recent results or transfers, say so rather than guessing.`

// Opener opens a streamed chat completion for messages. The returned body
// is an SSE stream of OpenAI-style deltas and is closed by the caller.
type Opener interface {
	OpenStream(ctx context.Context, messages []llm.Message) (io.ReadCloser, error)
}

// Client sends chat turns through an Opener. Only one turn runs at a time;
// a send attempted while another is in flight is ignored.
type Client struct {
	opener    Opener
	logger    *slog.Logger
	chunkSize int
	onFailure func(error)

	inFlight atomic.Bool
}

// NewClient creates a chat client.
func NewClient(opener Opener, opts ...Option) *Client {
	c := &Client{
		opener:    opener,
		logger:    logger.Nop(),
		chunkSize: sse.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Busy reports whether a turn is currently streaming.
func (c *Client) Busy() bool {
	return c.inFlight.Load()
}

// SendTurn returns the sequence of transcript snapshots for one turn: the
// transcript with the trimmed user text appended, then one snapshot per
// streamed fragment. A failed open or read ends the sequence with a
// fallback assistant entry.
//
// The sequence is lazy and not restartable. Nothing happens until it is
// ranged over, and ranging it again yields nothing. It also yields nothing
// when newUserText is blank or another turn is in flight. The stream body
// is closed however iteration ends.
func (c *Client) SendTurn(ctx context.Context, transcript []llm.Message, newUserText string) iter.Seq[[]llm.Message] {
	text := strings.TrimSpace(newUserText)
	var ranged atomic.Bool

	return func(yield func([]llm.Message) bool) {
		if text == "" {
			return
		}

		if !ranged.CompareAndSwap(false, true) {
			c.logger.Debug("chat turn already consumed")
			return
		}

		if !c.inFlight.CompareAndSwap(false, true) {
			c.logger.Debug("chat turn ignored, another turn is in flight")
			return
		}
		defer c.inFlight.Store(false)

		t := conversation.New(transcript...)
		t.AppendUser(text)
		if !yield(t.Messages()) {
			return
		}

		body, err := c.opener.OpenStream(ctx, t.Messages())
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("opening chat stream", "error", err)
			c.fail(err)
			t.AppendFallback()
			yield(t.Messages())
			return
		}
		defer body.Close()

		reader := sse.NewReader(body,
			sse.WithLogger(c.logger),
			sse.WithChunkSize(c.chunkSize),
		)

		fragments := 0
		for {
			if ctx.Err() != nil {
				return
			}

			fragment, err := reader.Next()
			if errors.Is(err, io.EOF) {
				c.logger.Debug("chat turn complete",
					"fragments", fragments,
					"done_sentinel", reader.Done(),
				)
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("reading chat stream", "error", err, "fragments", fragments)
				c.fail(err)
				t.AppendFallback()
				yield(t.Messages())
				return
			}

			fragments++
			t.MergeAssistantFragment(fragment)
			if !yield(t.Messages()) {
				return
			}
		}
	}
}

func (c *Client) fail(err error) {
	if c.onFailure != nil {
		c.onFailure(err)
	}
}
