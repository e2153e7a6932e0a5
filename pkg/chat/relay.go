package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/papercomputeco/matchvision/pkg/llm"
)

// RelayPath is the chat route of a matchvision server.
const RelayPath = "/functions/v1/chat"

// RelayOpener opens chat streams through a matchvision server, which holds
// the gateway credentials.
type RelayOpener struct {
	target     string
	httpClient *http.Client
}

// NewRelayOpener returns an Opener posting to target + RelayPath.
// A nil httpClient uses a client without a timeout, so long streams are
// bounded only by their context.
func NewRelayOpener(target string, httpClient *http.Client) *RelayOpener {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &RelayOpener{
		target:     strings.TrimRight(target, "/"),
		httpClient: httpClient,
	}
}

// OpenStream posts messages and returns the SSE body.
func (o *RelayOpener) OpenStream(ctx context.Context, messages []llm.Message) (io.ReadCloser, error) {
	body, err := json.Marshal(llm.ChatTurnRequest{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.target+RelayPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request to server: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		var errResp llm.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, errors.New("server returned no stream body")
	}

	return resp.Body, nil
}
