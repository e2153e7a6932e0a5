package conversation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/matchvision/pkg/conversation"
	"github.com/papercomputeco/matchvision/pkg/llm"
)

func user(s string) llm.Message      { return llm.NewTextMessage(llm.RoleUser, s) }
func assistant(s string) llm.Message { return llm.NewTextMessage(llm.RoleAssistant, s) }

var _ = Describe("Transcript", func() {
	It("copies the initial messages", func() {
		initial := []llm.Message{user("Hi")}
		t := conversation.New(initial...)
		initial[0].Content = "changed"

		Expect(t.Messages()).To(Equal([]llm.Message{user("Hi")}))
	})

	It("starts empty", func() {
		t := conversation.New()
		Expect(t.Len()).To(Equal(0))
		_, ok := t.Last()
		Expect(ok).To(BeFalse())
		Expect(t.Messages()).To(BeEmpty())
	})

	Describe("MergeAssistantFragment", func() {
		It("concatenates fragments into one assistant entry", func() {
			t := conversation.New()
			t.AppendUser("Hi")
			t.MergeAssistantFragment("Hel")
			t.MergeAssistantFragment("lo")

			Expect(t.Messages()).To(Equal([]llm.Message{user("Hi"), assistant("Hello")}))
		})

		It("starts a new assistant entry after a user message", func() {
			t := conversation.New(user("Hi"), assistant("Hi there"))
			t.AppendUser("Who wins?")
			t.MergeAssistantFragment("Arsenal")

			Expect(t.Len()).To(Equal(4))
			last, ok := t.Last()
			Expect(ok).To(BeTrue())
			Expect(last).To(Equal(assistant("Arsenal")))
		})

		It("merges into a trailing assistant entry from the initial transcript", func() {
			t := conversation.New(user("Hi"), assistant("Hi"))
			t.MergeAssistantFragment(" there")

			Expect(t.Messages()).To(Equal([]llm.Message{user("Hi"), assistant("Hi there")}))
		})

		It("creates an assistant entry on an empty transcript", func() {
			t := conversation.New()
			t.MergeAssistantFragment("x")
			Expect(t.Messages()).To(Equal([]llm.Message{assistant("x")}))
		})

		It("keeps exactly one assistant entry for any number of fragments", func() {
			t := conversation.New()
			t.AppendUser("q")
			for _, f := range []string{"a", "b", "c", "d"} {
				t.MergeAssistantFragment(f)
			}
			Expect(t.Messages()).To(Equal([]llm.Message{user("q"), assistant("abcd")}))
		})
	})

	Describe("AppendFallback", func() {
		It("adds the apology as a separate entry after partial content", func() {
			t := conversation.New()
			t.AppendUser("Hi")
			t.MergeAssistantFragment("Par")
			t.AppendFallback()

			Expect(t.Messages()).To(Equal([]llm.Message{
				user("Hi"),
				assistant("Par"),
				assistant(conversation.FallbackText),
			}))
		})

		It("follows the user message directly when nothing streamed", func() {
			t := conversation.New()
			t.AppendUser("Hi")
			t.AppendFallback()

			Expect(t.Messages()).To(Equal([]llm.Message{user("Hi"), assistant(conversation.FallbackText)}))
		})
	})

	It("returns snapshots that later mutations do not change", func() {
		t := conversation.New()
		t.AppendUser("Hi")
		t.MergeAssistantFragment("He")
		snap := t.Messages()

		t.MergeAssistantFragment("llo")
		Expect(snap[1].Content).To(Equal("He"))
		Expect(t.Messages()[1].Content).To(Equal("Hello"))
	})
})
