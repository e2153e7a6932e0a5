package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/logger"
	"github.com/papercomputeco/matchvision/pkg/utils"
)

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("empty completion")

// Completer runs a non-streamed chat completion.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (*llm.ChatResponse, error)
}

// Predictor asks a Completer for a Prediction.
type Predictor struct {
	completer Completer
	logger    *slog.Logger
}

// NewPredictor creates a predictor. A nil logger discards output.
func NewPredictor(completer Completer, log *slog.Logger) *Predictor {
	if log == nil {
		log = logger.Nop()
	}
	return &Predictor{completer: completer, logger: log}
}

// Predict requests and decodes a prediction for in.
func (p *Predictor) Predict(ctx context.Context, in Input) (*Prediction, error) {
	resp, err := p.completer.Complete(ctx, []llm.Message{
		llm.NewTextMessage(llm.RoleSystem, SystemPrompt),
		llm.NewTextMessage(llm.RoleUser, UserPrompt(in)),
	})
	if err != nil {
		return nil, fmt.Errorf("requesting prediction: %w", err)
	}

	content := StripCodeFences(resp.Text())
	if content == "" {
		return nil, ErrEmptyCompletion
	}

	var out Prediction
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		p.logger.Error("model returned invalid prediction JSON",
			"error", err,
			"content_bytes", len(content),
			"content", utils.Truncate(content, 200),
		)
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}

	p.logger.Debug("prediction decoded",
		"home", in.HomeTeam.Name,
		"away", in.AwayTeam.Name,
		"score_home", out.PredictedScore.Home,
		"score_away", out.PredictedScore.Away,
	)

	return &out, nil
}

// StripCodeFences removes markdown code fence markers (```json and ```)
// wherever they appear and trims surrounding whitespace.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```\n", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
