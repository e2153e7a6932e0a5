package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/papercomputeco/matchvision/pkg/llm"
)

// MockGateway is an httptest server speaking the chat completions API.
type MockGateway struct {
	*httptest.Server

	mu       sync.Mutex
	requests []llm.ChatRequest
	headers  []http.Header

	// Status, when non-zero, is returned with Body instead of a completion.
	Status int
	Body   string

	// Completion is the assistant content of non-streamed responses.
	Completion string

	// Stream is written verbatim, one flushed write per element, for
	// streamed requests.
	Stream []string
}

// NewMockGateway starts a mock gateway. Close it when done.
func NewMockGateway() *MockGateway {
	g := &MockGateway{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/completions", g.handle)
	g.Server = httptest.NewServer(mux)
	return g
}

// Requests returns the decoded request bodies received so far.
func (g *MockGateway) Requests() []llm.ChatRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]llm.ChatRequest(nil), g.requests...)
}

// Headers returns the request headers received so far.
func (g *MockGateway) Headers() []http.Header {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]http.Header(nil), g.headers...)
}

func (g *MockGateway) handle(w http.ResponseWriter, r *http.Request) {
	var req llm.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.headers = append(g.headers, r.Header.Clone())
	status, body := g.Status, g.Body
	g.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
		return
	}

	if !req.Stream {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(llm.ChatResponse{
			ID:    "cmpl-test",
			Model: req.Model,
			Choices: []llm.Choice{{
				Message:      llm.NewTextMessage(llm.RoleAssistant, g.Completion),
				FinishReason: "stop",
			}},
			Usage: &llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	flusher, _ := w.(http.Flusher)
	for _, chunk := range g.Stream {
		fmt.Fprint(w, chunk)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// DeltaLine renders one SSE data line carrying content.
func DeltaLine(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"delta": map[string]any{"content": content}}},
	})
	return "data: " + string(payload) + "\n\n"
}

// DoneLine is the SSE end-of-content sentinel.
const DoneLine = "data: [DONE]\n\n"
