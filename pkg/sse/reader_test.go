package sse_test

import (
	"bytes"
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/matchvision/pkg/sse"
)

// chunkedReader returns its chunks one Read at a time, then err.
type chunkedReader struct {
	chunks []string
	err    error
	reads  int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		return 0, io.EOF
	}
	c.reads++
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func collect(r *sse.TeeReader) ([]string, error) {
	var out []string
	for {
		frag, err := r.Next()
		if err != nil {
			return out, err
		}
		out = append(out, frag)
	}
}

var _ = Describe("TeeReader", func() {
	var dst *bytes.Buffer

	BeforeEach(func() {
		dst = &bytes.Buffer{}
	})

	Describe("Next", func() {
		It("returns fragments then io.EOF", func() {
			input := dataLine("Hi") + "\n" + dataLine(" there") + "\n"
			r := sse.NewTeeReader(strings.NewReader(input), dst)

			frags, err := collect(r)
			Expect(err).To(Equal(io.EOF))
			Expect(frags).To(Equal([]string{"Hi", " there"}))
		})

		It("returns io.EOF on empty input", func() {
			r := sse.NewTeeReader(strings.NewReader(""), dst)
			_, err := r.Next()
			Expect(err).To(Equal(io.EOF))
		})

		It("reassembles fragments across small reads", func() {
			input := dataLine("chunked") + dataLine(" reads") + "data: [DONE]\n"
			r := sse.NewReader(strings.NewReader(input), sse.WithChunkSize(3))

			frags, err := collect(r)
			Expect(err).To(Equal(io.EOF))
			Expect(strings.Join(frags, "")).To(Equal("chunked reads"))
			Expect(r.Done()).To(BeTrue())
		})

		It("stops reading the source after [DONE]", func() {
			src := &chunkedReader{chunks: []string{
				dataLine("a") + "data: [DONE]\n",
				dataLine("never"),
			}}
			r := sse.NewTeeReader(src, dst)

			frags, err := collect(r)
			Expect(err).To(Equal(io.EOF))
			Expect(frags).To(Equal([]string{"a"}))
			Expect(src.reads).To(Equal(1))
		})

		It("surfaces a transport error after partial content", func() {
			boom := errors.New("connection reset")
			src := &chunkedReader{chunks: []string{dataLine("Par")}, err: boom}
			r := sse.NewTeeReader(src, dst)

			frags, err := collect(r)
			Expect(frags).To(Equal([]string{"Par"}))
			Expect(err).To(MatchError(boom))

			_, err = r.Next()
			Expect(err).To(MatchError(boom))
		})

		It("drops an incomplete trailing line at end of stream", func() {
			input := dataLine("kept") + `data: {"choices":[{"delta":{"content":"cut`
			r := sse.NewReader(strings.NewReader(input))

			frags, err := collect(r)
			Expect(err).To(Equal(io.EOF))
			Expect(frags).To(Equal([]string{"kept"}))
		})
	})

	Describe("verbatim byte forwarding", func() {
		It("preserves exact SSE framing in dst", func() {
			input := ": open\n\n" + dataLine("Hi") + "\n" + "data: [DONE]\n\n"
			r := sse.NewTeeReader(strings.NewReader(input), dst)

			_, err := collect(r)
			Expect(err).To(Equal(io.EOF))
			Expect(dst.String()).To(Equal(input))
		})

		It("forwards trailing bytes after [DONE] through Drain", func() {
			src := &chunkedReader{chunks: []string{
				dataLine("x") + "data: [DONE]\n",
				"\n: trailer\n",
			}}
			r := sse.NewTeeReader(src, dst)

			_, err := collect(r)
			Expect(err).To(Equal(io.EOF))

			n, err := r.Drain()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(len("\n: trailer\n"))))
			Expect(dst.String()).To(HaveSuffix("data: [DONE]\n\n: trailer\n"))
		})

		It("returns the destination's write error", func() {
			r := sse.NewTeeReader(strings.NewReader(dataLine("x")), failingWriter{})
			_, err := r.Next()
			Expect(err).To(MatchError(io.ErrClosedPipe))
		})
	})
})

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }
