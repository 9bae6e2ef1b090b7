package receipt

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Client", func() {
	var (
		api    *ghttp.Server
		client *Client
		ctx    context.Context
	)

	BeforeEach(func() {
		api = ghttp.NewServer()
		client = NewClient(api.URL() + "/")
		ctx = context.Background()
	})

	AfterEach(func() {
		api.Close()
	})

	Describe("Process", func() {
		var (
			id  string
			err error
		)

		JustBeforeEach(func() {
			id, err = client.Process(ctx, targetReceipt())
		})

		When("the server accepts the receipt", func() {
			BeforeEach(func() {
				api.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest(http.MethodPost, "/receipts/process"),
					ghttp.VerifyContentType("application/json"),
					ghttp.VerifyJSONRepresenting(targetReceipt()),
					ghttp.RespondWithJSONEncoded(http.StatusOK, SubmitResponse{ID: "adb6b560-0eef-42bc-9d16-df48f30e89b2"}),
				))
			})

			It("should return the ID", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(id).To(Equal("adb6b560-0eef-42bc-9d16-df48f30e89b2"))
				Expect(api.ReceivedRequests()).To(HaveLen(1))
			})
		})

		When("the server rejects the receipt", func() {
			BeforeEach(func() {
				api.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusBadRequest, map[string]string{
					"error": `invalid total "35.3x": must be a decimal amount`,
				}))
			})

			It("should return an APIError with the server's message", func() {
				var apiErr *APIError
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(apiErr.Message).To(ContainSubstring("invalid total"))
				Expect(id).To(BeEmpty())
			})
		})

		When("the error body is not JSON", func() {
			BeforeEach(func() {
				api.AppendHandlers(ghttp.RespondWith(http.StatusBadGateway, "upstream down\n"))
			})

			It("should use the raw body as the message", func() {
				var apiErr *APIError
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.Message).To(Equal("upstream down"))
			})
		})

		When("the response cannot be decoded", func() {
			BeforeEach(func() {
				api.AppendHandlers(ghttp.RespondWith(http.StatusOK, "not json"))
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(ContainSubstring("decoding response")))
			})
		})
	})

	Describe("Points", func() {
		var (
			score ScoreResult
			err   error
		)

		JustBeforeEach(func() {
			score, err = client.Points(ctx, "abc 123")
		})

		When("the receipt exists", func() {
			BeforeEach(func() {
				api.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest(http.MethodGet, "/receipts/abc 123/points"),
					ghttp.RespondWithJSONEncoded(http.StatusOK, ScoreResult{
						Points:    6,
						Breakdown: []string{"6 points - retailer name has 6 characters"},
					}),
				))
			})

			It("should return the score", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(score.Points).To(Equal(6))
				Expect(score.Breakdown).To(ConsistOf("6 points - retailer name has 6 characters"))
			})
		})

		When("the receipt does not exist", func() {
			BeforeEach(func() {
				api.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusNotFound, map[string]string{
					"error": "No receipt found for that ID.",
				}))
			})

			It("should return a NotFoundError", func() {
				var notFound *NotFoundError
				Expect(errors.As(err, &notFound)).To(BeTrue())
				Expect(notFound.ID).To(Equal("abc 123"))
			})
		})

		When("the server fails", func() {
			BeforeEach(func() {
				api.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusInternalServerError, map[string]string{
					"error": "Internal server error",
				}))
			})

			It("should return an APIError", func() {
				var apiErr *APIError
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.StatusCode).To(Equal(http.StatusInternalServerError))
				Expect(apiErr.Error()).To(Equal("receipt processor returned 500: Internal server error"))
			})
		})
	})

	When("the server is unreachable", func() {
		It("returns the error", func() {
			api.Close()
			_, err := client.Points(ctx, "id-1")
			Expect(err).To(MatchError(ContainSubstring("calling receipt processor")))
		})
	})
})
