package sse

import (
	"log/slog"

	"github.com/papercomputeco/matchvision/pkg/logger"
)

// DefaultChunkSize is the read size Reader uses per transport read.
const DefaultChunkSize = 4096

// DecoderOption configures a Decoder or Reader.
type DecoderOption func(*options)

type options struct {
	logger    *slog.Logger
	chunkSize int
}

func newOptions(opts []DecoderOption) *options {
	o := &options{
		logger:    logger.Nop(),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for Debug-level decode tracing.
func WithLogger(l *slog.Logger) DecoderOption {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithChunkSize sets how many bytes Reader asks for per read.
func WithChunkSize(n int) DecoderOption {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}
