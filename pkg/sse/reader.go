package sse

import (
	"errors"
	"io"
	"log/slog"
)

// TeeReader reads raw chunks from a source io.Reader, runs them through a
// Decoder and, when a destination is set, writes every byte verbatim to it.
// Next returns content fragments for consumption while the destination sees
// the exact upstream stream.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │ TeeReader.Next() │──▶│ destination io.Writer │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │ content fragment │
// └──────────────────┘
type TeeReader struct {
	src     io.Reader
	dest    io.Writer
	decoder *Decoder
	logger  *slog.Logger

	buf   []byte
	queue []string
	err   error
}

// NewTeeReader returns a TeeReader that decodes src and writes all raw bytes
// through to dest. The dest writer typically backs an io.Pipe connected to a
// downstream HTTP response.
func NewTeeReader(src io.Reader, dest io.Writer, opts ...DecoderOption) *TeeReader {
	o := newOptions(opts)
	return &TeeReader{
		src:     src,
		dest:    dest,
		decoder: &Decoder{logger: o.logger},
		logger:  o.logger,
		buf:     make([]byte, o.chunkSize),
	}
}

// NewReader returns a TeeReader without a destination.
func NewReader(src io.Reader, opts ...DecoderOption) *TeeReader {
	return NewTeeReader(src, nil, opts...)
}

// Next returns the next content fragment. It blocks on the source until a
// chunk completes at least one fragment.
//
// Next returns io.EOF once the source is exhausted or "data: [DONE]" has been
// decoded; no further bytes are read from the source after [DONE]. Any other
// read or write error is returned as is and repeated on later calls.
func (r *TeeReader) Next() (string, error) {
	for len(r.queue) == 0 {
		if r.err != nil {
			return "", r.err
		}

		if r.decoder.Done() {
			r.err = io.EOF
			continue
		}

		n, err := r.src.Read(r.buf)
		if n > 0 {
			if r.dest != nil {
				if _, werr := r.dest.Write(r.buf[:n]); werr != nil {
					r.err = werr
					continue
				}
			}
			r.queue = append(r.queue, r.decoder.Feed(r.buf[:n])...)
		}

		if err != nil {
			r.decoder.Close()
			r.err = err
			if !errors.Is(err, io.EOF) {
				r.logger.Debug("stream read failed", "error", err)
			}
		}
	}

	fragment := r.queue[0]
	r.queue = r.queue[1:]
	return fragment, nil
}

// Done reports whether the underlying decoder has seen [DONE].
func (r *TeeReader) Done() bool {
	return r.decoder.Done()
}

// Drain copies whatever remains in the source to the destination without
// decoding it. A relay calls Drain after Next returns io.EOF so trailing
// bytes after [DONE] still reach the client verbatim.
func (r *TeeReader) Drain() (int64, error) {
	if r.dest == nil {
		return io.Copy(io.Discard, r.src)
	}
	return io.Copy(r.dest, r.src)
}
