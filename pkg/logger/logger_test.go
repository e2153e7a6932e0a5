package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/matchvision/pkg/logger"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("New", func() {
	It("defaults to a text handler at Info", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf))
		l.Info("squad fetched", "team_id", 42)
		l.Debug("hidden")

		Expect(buf.String()).To(ContainSubstring("msg=\"squad fetched\""))
		Expect(buf.String()).To(ContainSubstring("team_id=42"))
		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
	})

	It("lowers the level with WithDebug", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithDebug(true))
		l.Debug("rewound line")

		Expect(buf.String()).To(ContainSubstring("rewound line"))
	})

	It("honors an explicit level", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithLevel(slog.LevelWarn))
		l.Info("dropped")
		l.Warn("kept")

		Expect(buf.String()).NotTo(ContainSubstring("dropped"))
		Expect(buf.String()).To(ContainSubstring("kept"))
	})

	It("writes JSON with FormatJSON", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatJSON))
		l.Info("prediction decoded", "score_home", 2)

		parsed := decodeLine(&buf)
		Expect(parsed["msg"]).To(Equal("prediction decoded"))
		Expect(parsed["score_home"]).To(BeNumerically("==", 2))
	})

	It("writes human output with FormatPretty", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatPretty))
		l.Info("starting API server")

		Expect(buf.String()).To(ContainSubstring("starting API server"))
	})

	It("writes to every writer given", func() {
		var buf1, buf2 bytes.Buffer
		l := logger.New(logger.WithWriter(&buf1), logger.WithWriter(&buf2))
		l.Info("both")

		Expect(buf1.String()).To(ContainSubstring("both"))
		Expect(buf2.String()).To(ContainSubstring("both"))
	})
})

var _ = DescribeTable("ParseFormat",
	func(in string, want logger.Format, ok bool) {
		got, err := logger.ParseFormat(in)
		if !ok {
			Expect(err).To(MatchError(ContainSubstring("unknown log format")))
			return
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	},
	Entry("text", "text", logger.FormatText, true),
	Entry("upper case", "JSON", logger.FormatJSON, true),
	Entry("padded", " pretty ", logger.FormatPretty, true),
	Entry("unknown", "xml", logger.Format(""), false),
	Entry("empty", "", logger.Format(""), false),
)

var _ = Describe("Nop", func() {
	It("is disabled at every level", func() {
		h := logger.Nop().Handler()
		Expect(h.Enabled(context.Background(), slog.LevelError)).To(BeFalse())
	})

	It("survives With and WithGroup", func() {
		l := logger.Nop()
		Expect(func() {
			l.With("key", "value").WithGroup("group").Error("msg")
		}).NotTo(Panic())
	})
})

var _ = Describe("ForCLI", func() {
	It("discards output unless debugging", func() {
		l := logger.ForCLI(false)
		Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
	})

	It("logs debug records when debugging", func() {
		l := logger.ForCLI(true)
		Expect(l.Handler().Enabled(context.Background(), slog.LevelDebug)).To(BeTrue())
	})
})

var _ = Describe("Multi", func() {
	It("dispatches to all loggers", func() {
		var buf1, buf2 bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&buf1)),
			logger.New(logger.WithWriter(&buf2), logger.WithFormat(logger.FormatJSON)),
		)
		multi.Info("broadcast", "key", "val")

		Expect(buf1.String()).To(ContainSubstring("broadcast"))
		Expect(decodeLine(&buf2)["key"]).To(Equal("val"))
	})

	It("respects each logger's level", func() {
		var info, debug bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&info)),
			logger.New(logger.WithWriter(&debug), logger.WithDebug(true)),
		)
		multi.Debug("fragment merged")

		Expect(info.String()).To(BeEmpty())
		Expect(debug.String()).To(ContainSubstring("fragment merged"))
	})

	It("keeps writing when one handler fails", func() {
		var buf bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(failingWriter{})),
			logger.New(logger.WithWriter(&buf)),
		)

		err := multi.Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still here", 0))
		Expect(err).To(MatchError(ContainSubstring("disk full")))
		Expect(buf.String()).To(ContainSubstring("still here"))
	})

	It("carries With and WithGroup to every handler", func() {
		var buf1, buf2 bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&buf1), logger.WithFormat(logger.FormatJSON)),
			logger.New(logger.WithWriter(&buf2), logger.WithFormat(logger.FormatJSON)),
		)
		multi.With("request_id", "abc").WithGroup("upstream").Info("relayed", "fragments", 3)

		for _, buf := range []*bytes.Buffer{&buf1, &buf2} {
			parsed := decodeLine(buf)
			Expect(parsed["request_id"]).To(Equal("abc"))
			group, ok := parsed["upstream"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(group["fragments"]).To(BeNumerically("==", 3))
		}
	})

	It("skips nil and Nop loggers", func() {
		var buf bytes.Buffer
		only := logger.New(logger.WithWriter(&buf))
		multi := logger.Multi(nil, logger.Nop(), only)

		Expect(multi.Handler()).To(BeIdenticalTo(only.Handler()))
	})

	It("is a Nop when nothing is left", func() {
		multi := logger.Multi(logger.Nop())
		Expect(multi.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
	})

	It("flattens nested Multi loggers", func() {
		var buf1, buf2, buf3 bytes.Buffer
		inner := logger.Multi(logger.New(logger.WithWriter(&buf1)), logger.New(logger.WithWriter(&buf2)))
		outer := logger.Multi(inner, logger.New(logger.WithWriter(&buf3)))
		outer.Info("once each")

		for _, buf := range []*bytes.Buffer{&buf1, &buf2, &buf3} {
			Expect(strings.Count(buf.String(), "once each")).To(Equal(1))
		}
	})
})
