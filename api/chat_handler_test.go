package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/matchvision/pkg/chat"
	"github.com/papercomputeco/matchvision/pkg/conversation"
	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/llm/gateway"
	"github.com/papercomputeco/matchvision/pkg/logger"
	"github.com/papercomputeco/matchvision/pkg/prediction"
	testutils "github.com/papercomputeco/matchvision/pkg/utils/test"
)

// appOpener runs chat turns against the server in-process.
type appOpener struct {
	server *Server
}

func (o appOpener) OpenStream(_ context.Context, messages []llm.Message) (io.ReadCloser, error) {
	resp := postJSON(o.server, chatPath, llm.ChatTurnRequest{Messages: messages})
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.New(resp.Status)
	}
	return resp.Body, nil
}

var _ = Describe("POST chat", func() {
	var (
		gw     *testutils.MockGateway
		server *Server
	)

	BeforeEach(func() {
		gw = testutils.NewMockGateway()
		DeferCleanup(gw.Close)

		gatewayClient := gateway.NewClient(gateway.Config{BaseURL: gw.URL})

		var err error
		server, err = NewServer(Config{}, Services{
			Football:  football.NewClient(football.Config{}),
			Predictor: prediction.NewPredictor(gatewayClient, nil),
			Chat:      gatewayClient.WithSystemPrompt(chat.SystemPrompt),
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	It("relays the upstream stream verbatim", func() {
		stream := []string{
			": keep-alive\n\n",
			testutils.DeltaLine("Hello"),
			testutils.DeltaLine(" world"),
			testutils.DoneLine,
		}
		gw.Stream = stream

		resp := postJSON(server, chatPath, llm.ChatTurnRequest{
			Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "Hi")},
		})
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))
		Expect(resp.Header.Get("Content-Encoding")).To(BeEmpty())
		Expect(readBody(resp)).To(Equal(strings.Join(stream, "")))

		sent := gw.Requests()[0]
		Expect(sent.Stream).To(BeTrue())
		Expect(sent.Messages[0].Role).To(Equal(llm.RoleSystem))
		Expect(sent.Messages[1].Content).To(Equal("Hi"))
	})

	It("feeds a chat client end to end", func() {
		gw.Stream = []string{testutils.DeltaLine("Hi"), testutils.DeltaLine(" there"), testutils.DoneLine}
		client := chat.NewClient(appOpener{server: server})

		var last []llm.Message
		for snap := range client.SendTurn(context.Background(), nil, "Hi") {
			last = snap
		}
		Expect(last).To(Equal([]llm.Message{
			llm.NewTextMessage(llm.RoleUser, "Hi"),
			llm.NewTextMessage(llm.RoleAssistant, "Hi there"),
		}))
	})

	It("maps gateway errors before streaming", func() {
		gw.Status = http.StatusTooManyRequests

		resp := postJSON(server, chatPath, llm.ChatTurnRequest{
			Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "Hi")},
		})
		Expect(resp.StatusCode).To(Equal(http.StatusTooManyRequests))
		Expect(errorOf(resp)).To(Equal(rateLimitedMessage))
	})

	It("leaves the client with the fallback entry when the relay fails", func() {
		gw.Status = http.StatusPaymentRequired
		client := chat.NewClient(appOpener{server: server})

		var last []llm.Message
		for snap := range client.SendTurn(context.Background(), nil, "Hi") {
			last = snap
		}
		Expect(last[len(last)-1].Content).To(Equal(conversation.FallbackText))
	})

	It("rejects empty transcripts", func() {
		resp := postJSON(server, chatPath, llm.ChatTurnRequest{})
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects unknown roles", func() {
		resp := postJSON(server, chatPath, llm.ChatTurnRequest{
			Messages: []llm.Message{{Role: "tool", Content: "x"}},
		})
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})
})
