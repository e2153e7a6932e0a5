package chatcmder

import (
	"bytes"
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/matchvision/pkg/chat"
	"github.com/papercomputeco/matchvision/pkg/cliui"
	"github.com/papercomputeco/matchvision/pkg/conversation"
	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/logger"
	testutils "github.com/papercomputeco/matchvision/pkg/utils/test"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("registers the shared upstream flags", func() {
		cmd := NewChatCmd()
		Expect(cmd.Flags().Lookup("server-target")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("gateway-url")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("direct")).NotTo(BeNil())

		model := cmd.Flags().Lookup("model")
		Expect(model).NotTo(BeNil())
		Expect(model.Shorthand).To(Equal("m"))
	})
})

var _ = Describe("streamPrinter", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	user := llm.NewTextMessage(llm.RoleUser, "Who is top of the league?")

	It("prints only the text each snapshot adds", func() {
		p := newStreamPrinter(out, 1)
		p.Print([]llm.Message{user})
		p.Print([]llm.Message{user, llm.NewTextMessage(llm.RoleAssistant, "Ars")})
		p.Print([]llm.Message{user, llm.NewTextMessage(llm.RoleAssistant, "Arsenal")})
		p.Print([]llm.Message{user, llm.NewTextMessage(llm.RoleAssistant, "Arsenal, by two.")})

		Expect(out.String()).To(Equal("Arsenal, by two."))
	})

	It("puts a failure fallback on its own line", func() {
		p := newStreamPrinter(out, 1)
		p.Print([]llm.Message{user, llm.NewTextMessage(llm.RoleAssistant, "Par")})
		p.Fail(errors.New("connection reset"))
		p.Print([]llm.Message{
			user,
			llm.NewTextMessage(llm.RoleAssistant, "Par"),
			llm.NewTextMessage(llm.RoleAssistant, conversation.FallbackText),
		})

		lines := strings.Split(out.String(), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(Equal("Par"))
		Expect(lines[1]).To(HavePrefix(cliui.FailMark))
		Expect(lines[1]).To(HaveSuffix(conversation.FallbackText))
	})

	It("does not mark a reply that reads like the fallback", func() {
		p := newStreamPrinter(out, 1)
		p.Print([]llm.Message{user, llm.NewTextMessage(llm.RoleAssistant, conversation.FallbackText)})

		Expect(out.String()).To(Equal(conversation.FallbackText))
	})

	It("ignores entries before the turn", func() {
		earlier := []llm.Message{
			llm.NewTextMessage(llm.RoleUser, "Hi"),
			llm.NewTextMessage(llm.RoleAssistant, "Hello!"),
			user,
		}
		p := newStreamPrinter(out, len(earlier))
		p.Print(append(earlier, llm.NewTextMessage(llm.RoleAssistant, "City.")))

		Expect(out.String()).To(Equal("City."))
	})
})

var _ = Describe("repl", func() {
	var (
		opener  *testutils.MockOpener
		session *chat.Session
		cmder   *ChatCommander
		out     *bytes.Buffer
	)

	BeforeEach(func() {
		opener = &testutils.MockOpener{
			Chunks: []string{testutils.DeltaLine("Two"), testutils.DeltaLine("-one"), testutils.DoneLine},
		}
		cmder = &ChatCommander{logger: logger.Nop()}
		session = cmder.newSession(opener)
		out = &bytes.Buffer{}
	})

	It("streams a reply for each line of input", func() {
		in := strings.NewReader("Predict Arsenal v Chelsea\n")
		Expect(cmder.repl(context.Background(), session, in, out)).To(Succeed())

		Expect(out.String()).To(ContainSubstring("Two-one"))
		Expect(session.Messages()).To(Equal([]llm.Message{
			llm.NewTextMessage(llm.RoleUser, "Predict Arsenal v Chelsea"),
			llm.NewTextMessage(llm.RoleAssistant, "Two-one"),
		}))
	})

	It("skips blank lines", func() {
		in := strings.NewReader("\n   \n")
		Expect(cmder.repl(context.Background(), session, in, out)).To(Succeed())
		Expect(opener.Opened()).To(BeEmpty())
	})

	It("stops at /exit", func() {
		in := strings.NewReader("/exit\nstill here?\n")
		Expect(cmder.repl(context.Background(), session, in, out)).To(Succeed())
		Expect(opener.Opened()).To(BeEmpty())
	})

	It("starts over at /reset", func() {
		in := strings.NewReader("first\n/reset\nsecond\n")
		Expect(cmder.repl(context.Background(), session, in, out)).To(Succeed())

		opened := opener.Opened()
		Expect(opened).To(HaveLen(2))
		Expect(opened[1]).To(Equal([]llm.Message{llm.NewTextMessage(llm.RoleUser, "second")}))
		Expect(out.String()).To(ContainSubstring("New conversation"))
	})

	It("shows the fallback when the stream cannot be opened", func() {
		opener.OpenErr = errors.New("connection refused")

		in := strings.NewReader("hello\n")
		Expect(cmder.repl(context.Background(), session, in, out)).To(Succeed())
		Expect(out.String()).To(ContainSubstring(cliui.FailMark + " " + conversation.FallbackText))
	})

	It("marks a fallback that follows a partial reply", func() {
		opener.Chunks = []string{testutils.DeltaLine("Two")}
		opener.ReadErr = errors.New("connection reset")

		in := strings.NewReader("hello\n")
		Expect(cmder.repl(context.Background(), session, in, out)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Two\n" + cliui.FailMark + " " + conversation.FallbackText))
	})
})
