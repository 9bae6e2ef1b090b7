package scanning

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server      *ghttp.Server
		scanner     *Ollama
		image       []byte
		contentType string
		data        *ReceiptData
		err         error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		image = []byte("png image bytes")
		contentType = "image/png"

		var newErr error
		scanner, newErr = NewOllama(server.URL(), "llava")
		Expect(newErr).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		data, err = scanner.ScanReceipt(image, contentType)
	})

	When("the model returns receipt JSON", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					defer GinkgoRecover()
					var req ollamaChatRequest
					Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
					Expect(req.Model).To(Equal("llava"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Format).To(Equal("json"))
					Expect(req.Messages).To(HaveLen(2))
					Expect(req.Messages[1].Content).To(Equal(receiptScanPrompt))
					Expect(req.Messages[1].Images).To(ConsistOf(base64.StdEncoding.EncodeToString(image)))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Done: true,
					Message: ollamaMessage{
						Role:    "assistant",
						Content: `{"retailer": "M&M Corner Market", "purchaseDate": "2022-03-20", "purchaseTime": "2:33 PM", "total": 9, "items": [{"shortDescription": "Gatorade", "price": "$2.25"}]}`,
					},
				}),
			))
		})

		It("should return the normalized receipt", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal(&ReceiptData{
				Retailer:     "M&M Corner Market",
				PurchaseDate: "2022-03-20",
				PurchaseTime: "14:33",
				Total:        "9.00",
				Items:        []ItemData{{ShortDescription: "Gatorade", Price: "2.25"}},
			}))
		})
	})

	When("the API returns an error", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("returns the error", func() {
			Expect(err).To(MatchError("ollama API error (status 500): model not loaded"))
			Expect(data).To(BeNil())
		})
	})

	When("the model reply has no JSON", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
				Done:    true,
				Message: ollamaMessage{Role: "assistant", Content: "This image is too blurry."},
			}))
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("parsing receipt data")))
		})
	})

	When("the image cannot be converted", func() {
		BeforeEach(func() {
			image = []byte("not an image")
			contentType = "image/jpeg"
		})

		It("returns the error before calling the API", func() {
			Expect(err).To(MatchError(ContainSubstring("converting image to PNG")))
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})
})

var _ = Describe("NewOllama", func() {
	It("should apply defaults", func() {
		scanner, err := NewOllama("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(scanner.baseURL).To(Equal("http://localhost:11434"))
		Expect(scanner.model).To(Equal("llava"))
		Expect(scanner.Close()).To(Succeed())
	})
})
