package testutils

import (
	"context"
	"io"
	"sync"

	"github.com/papercomputeco/matchvision/pkg/llm"
)

// MockOpener hands out scripted streams.
type MockOpener struct {
	// Chunks are returned one per Read.
	Chunks []string

	// ReadErr is returned once Chunks are exhausted. nil means io.EOF.
	ReadErr error

	// OpenErr makes OpenStream fail.
	OpenErr error

	// Gate, when set, blocks the first Read until it is closed.
	Gate chan struct{}

	mu     sync.Mutex
	opened [][]llm.Message
	bodies []*MockBody
}

// OpenStream records messages and returns a new MockBody.
func (o *MockOpener) OpenStream(_ context.Context, messages []llm.Message) (io.ReadCloser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.opened = append(o.opened, append([]llm.Message(nil), messages...))
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}

	body := &MockBody{
		chunks: append([]string(nil), o.Chunks...),
		err:    o.ReadErr,
		gate:   o.Gate,
	}
	o.bodies = append(o.bodies, body)
	return body, nil
}

// Opened returns the message lists passed to OpenStream.
func (o *MockOpener) Opened() [][]llm.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([][]llm.Message(nil), o.opened...)
}

// Bodies returns every body handed out.
func (o *MockOpener) Bodies() []*MockBody {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*MockBody(nil), o.bodies...)
}

// MockBody is a scripted stream body.
type MockBody struct {
	mu     sync.Mutex
	chunks []string
	err    error
	gate   chan struct{}
	reads  int
	closed bool
}

func (b *MockBody) Read(p []byte) (int, error) {
	if b.gate != nil {
		<-b.gate
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, io.ErrClosedPipe
	}
	if len(b.chunks) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		return 0, io.EOF
	}

	b.reads++
	n := copy(p, b.chunks[0])
	if n < len(b.chunks[0]) {
		b.chunks[0] = b.chunks[0][n:]
	} else {
		b.chunks = b.chunks[1:]
	}
	return n, nil
}

func (b *MockBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Closed reports whether Close was called.
func (b *MockBody) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Reads returns how many chunks were handed out.
func (b *MockBody) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}
