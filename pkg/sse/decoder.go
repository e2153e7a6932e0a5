package sse

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/papercomputeco/matchvision/pkg/llm"
)

// Decoder incrementally turns raw stream chunks into content fragments.
//
// Chunks carry no line boundaries of their own: one chunk may hold several
// lines, or end in the middle of one. Whatever follows the last newline is
// kept in the pending buffer until the next chunk arrives.
//
// A Decoder is not safe for concurrent use; it is owned by one stream.
type Decoder struct {
	pending []byte
	done    bool
	closed  bool
	logger  *slog.Logger
}

// NewDecoder returns an empty Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	o := newOptions(opts)
	return &Decoder{logger: o.logger}
}

// Feed appends chunk to the pending buffer and returns the content fragments
// of every line it completes, in arrival order.
//
// A data line whose payload is not valid JSON is pushed back onto the front
// of the pending buffer, newline restored, and scanning stops until the next
// chunk. Valid JSON of another shape is a line without content.
// After "data: [DONE]" (or Close) Feed ignores all input.
func (d *Decoder) Feed(chunk []byte) []string {
	if d.done || d.closed || len(chunk) == 0 {
		return nil
	}

	d.pending = append(d.pending, chunk...)

	var fragments []string
	for {
		idx := bytes.IndexByte(d.pending, '\n')
		if idx < 0 {
			break
		}

		raw := string(d.pending[:idx])
		d.pending = d.pending[idx+1:]

		line := ParseLine(raw)
		switch line.Kind {
		case LineIgnored:
			continue

		case LineDone:
			d.logger.Debug("stream done sentinel received", "discarded_bytes", len(d.pending))
			d.done = true
			d.pending = nil
			return fragments

		case LineData:
			payload := []byte(line.Data)
			if !json.Valid(payload) {
				d.rewind(raw)
				d.logger.Debug("incomplete data line, waiting for next chunk",
					"line_bytes", len(raw),
				)
				return fragments
			}

			// Unmarshal keeps decoding past a type mismatch, so a matching
			// delta.content survives an odd field elsewhere in the payload.
			var chunk llm.StreamChunk
			if err := json.Unmarshal(payload, &chunk); err != nil {
				d.logger.Debug("data line has an unexpected shape", "error", err)
			}

			if content, ok := chunk.Content(); ok && content != "" {
				fragments = append(fragments, content)
			}
		}
	}

	d.compact()
	return fragments
}

// Done reports whether the "data: [DONE]" sentinel has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Pending returns the number of buffered bytes not yet resolved into lines.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Close marks the end of the stream. An incomplete trailing line is dropped
// silently; the number of dropped bytes is returned.
func (d *Decoder) Close() int {
	discarded := len(d.pending)
	if discarded > 0 {
		d.logger.Debug("discarding incomplete trailing line", "bytes", discarded)
	}

	d.pending = nil
	d.closed = true
	return discarded
}

// rewind puts raw and its newline back in front of the pending buffer.
func (d *Decoder) rewind(raw string) {
	buf := make([]byte, 0, len(raw)+1+len(d.pending))
	buf = append(buf, raw...)
	buf = append(buf, '\n')
	buf = append(buf, d.pending...)
	d.pending = buf
}

// compact drops the consumed prefix of the backing array so a long stream
// does not keep every byte it has ever seen reachable.
func (d *Decoder) compact() {
	if len(d.pending) == 0 {
		d.pending = nil
		return
	}
	d.pending = bytes.Clone(d.pending)
}
