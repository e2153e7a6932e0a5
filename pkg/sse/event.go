// Package sse decodes Server-Sent Event streams produced by OpenAI-compatible
// chat completion endpoints into content fragments.
//
// Decoder is the incremental core: it is fed raw chunks of arbitrary size
// and emits the text carried in choices[0].delta.content of every complete
// "data: " line. Reader drives a Decoder from an io.Reader and can tee the
// raw bytes to a second writer, which is how the relay server forwards a
// stream verbatim while observing it.
//
// This package does NOT provide SSE writer or server capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "strings"

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// LineKind classifies a single logical line of an SSE stream.
type LineKind int

const (
	// LineIgnored covers comments (":" prefix), blank lines and every field
	// other than "data: ".
	LineIgnored LineKind = iota

	// LineData is a "data: " line carrying a payload.
	LineData

	// LineDone is the "data: [DONE]" sentinel.
	LineDone
)

// Line is a classified SSE line.
type Line struct {
	Kind LineKind

	// Data is the payload after "data: ", trimmed of surrounding whitespace.
	// Only set for LineData.
	Data string
}

// ParseLine classifies raw, which must not contain the terminating newline.
// A single trailing carriage return is stripped.
func ParseLine(raw string) Line {
	raw = strings.TrimSuffix(raw, "\r")

	if strings.HasPrefix(raw, ":") || strings.TrimSpace(raw) == "" {
		return Line{Kind: LineIgnored}
	}

	if !strings.HasPrefix(raw, dataPrefix) {
		return Line{Kind: LineIgnored}
	}

	payload := strings.TrimSpace(raw[len(dataPrefix):])
	if payload == doneSentinel {
		return Line{Kind: LineDone}
	}

	// "data: " with nothing after it carries no event payload.
	if payload == "" {
		return Line{Kind: LineIgnored}
	}

	return Line{Kind: LineData, Data: payload}
}
