package chatcmder

import (
	"fmt"
	"io"

	"github.com/papercomputeco/matchvision/pkg/cliui"
	"github.com/papercomputeco/matchvision/pkg/llm"
)

// streamPrinter writes only what each transcript snapshot adds to the reply
// entries of the current turn.
type streamPrinter struct {
	w io.Writer

	// base is the index of the first reply entry of the turn.
	base    int
	written []int

	// failed is set once the turn has failed; the next new entry is the
	// fallback.
	failed bool
}

func newStreamPrinter(w io.Writer, base int) *streamPrinter {
	return &streamPrinter{w: w, base: base}
}

// Fail records that the turn failed.
func (p *streamPrinter) Fail(error) {
	p.failed = true
}

func (p *streamPrinter) Print(snapshot []llm.Message) {
	for i := p.base; i < len(snapshot); i++ {
		k := i - p.base
		content := snapshot[i].Content

		if k == len(p.written) {
			if k > 0 {
				fmt.Fprint(p.w, "\n")
			}
			if p.failed {
				fmt.Fprintf(p.w, "%s ", cliui.FailMark)
			}
			p.written = append(p.written, 0)
		}

		if len(content) > p.written[k] {
			fmt.Fprint(p.w, content[p.written[k]:])
			p.written[k] = len(content)
		}
	}
}
