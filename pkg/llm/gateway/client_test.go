package gateway_test

import (
	"context"
	"errors"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/llm/gateway"
	testutils "github.com/papercomputeco/matchvision/pkg/utils/test"
)

var _ = Describe("Client", func() {
	var (
		mock   *testutils.MockGateway
		client *gateway.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = testutils.NewMockGateway()
		DeferCleanup(mock.Close)

		client = gateway.NewClient(gateway.Config{
			BaseURL: mock.URL + "/",
			APIKey:  "secret",
			Model:   "test-model",
		})
	})

	It("applies defaults", func() {
		c := gateway.NewClient(gateway.Config{})
		Expect(c.Model()).To(Equal(gateway.DefaultModel))
	})

	Describe("Complete", func() {
		It("returns the completion and sends the bearer token", func() {
			mock.Completion = `{"matchAnalysis":"tight"}`

			resp, err := client.Complete(ctx, []llm.Message{llm.NewTextMessage(llm.RoleUser, "predict")})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Text()).To(Equal(`{"matchAnalysis":"tight"}`))

			reqs := mock.Requests()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Model).To(Equal("test-model"))
			Expect(reqs[0].Stream).To(BeFalse())
			Expect(mock.Headers()[0].Get("Authorization")).To(Equal("Bearer secret"))
		})

		It("prepends the configured system prompt", func() {
			c := client.WithSystemPrompt("be brief")
			_, err := c.Complete(ctx, []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")})
			Expect(err).NotTo(HaveOccurred())

			msgs := mock.Requests()[0].Messages
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0]).To(Equal(llm.NewTextMessage(llm.RoleSystem, "be brief")))
		})

		It("keeps a caller supplied system message", func() {
			c := client.WithSystemPrompt("be brief")
			_, err := c.Complete(ctx, []llm.Message{
				llm.NewTextMessage(llm.RoleSystem, "custom"),
				llm.NewTextMessage(llm.RoleUser, "hi"),
			})
			Expect(err).NotTo(HaveOccurred())

			msgs := mock.Requests()[0].Messages
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Content).To(Equal("custom"))
		})
	})

	Describe("status errors", func() {
		DescribeTable("maps statuses to sentinels",
			func(status int, rateLimited, creditsExhausted bool) {
				mock.Status = status
				mock.Body = "nope"

				_, err := client.Complete(ctx, nil)
				Expect(err).To(HaveOccurred())

				var statusErr *gateway.StatusError
				Expect(errors.As(err, &statusErr)).To(BeTrue())
				Expect(statusErr.StatusCode).To(Equal(status))
				Expect(statusErr.Body).To(Equal("nope"))

				Expect(errors.Is(err, gateway.ErrRateLimited)).To(Equal(rateLimited))
				Expect(errors.Is(err, gateway.ErrCreditsExhausted)).To(Equal(creditsExhausted))
			},
			Entry("429", http.StatusTooManyRequests, true, false),
			Entry("402", http.StatusPaymentRequired, false, true),
			Entry("500", http.StatusInternalServerError, false, false),
		)

		It("fails OpenStream before returning a body", func() {
			mock.Status = http.StatusTooManyRequests

			body, err := client.OpenStream(ctx, nil)
			Expect(body).To(BeNil())
			Expect(errors.Is(err, gateway.ErrRateLimited)).To(BeTrue())
		})
	})

	Describe("OpenStream", func() {
		It("returns the raw event stream", func() {
			mock.Stream = []string{testutils.DeltaLine("Hi"), testutils.DoneLine}

			body, err := client.OpenStream(ctx, []llm.Message{llm.NewTextMessage(llm.RoleUser, "hello")})
			Expect(err).NotTo(HaveOccurred())
			defer body.Close()

			raw, err := io.ReadAll(body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal(testutils.DeltaLine("Hi") + testutils.DoneLine))

			Expect(mock.Requests()[0].Stream).To(BeTrue())
			Expect(mock.Headers()[0].Get("Accept")).To(Equal("text/event-stream"))
		})
	})

	It("wraps transport failures", func() {
		mock.Close()
		_, err := client.Complete(ctx, nil)
		Expect(err).To(MatchError(ContainSubstring("gateway request")))
	})
})
