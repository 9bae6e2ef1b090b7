package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseAmount", func() {
	When("the amount is well formed", func() {
		It("should parse it exactly", func() {
			amount, err := ParseAmount("total", "35.35")
			Expect(err).NotTo(HaveOccurred())
			Expect(amount.StringFixed(2)).To(Equal("35.35"))
			Expect(cents(amount).IntPart()).To(Equal(int64(3535)))
		})

		It("should accept the largest supported amount", func() {
			_, err := ParseAmount("total", "999999999999.99")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the amount is malformed", func() {
		It("should name the field", func() {
			_, err := ParseAmount("items[0].price", "1,000.00")
			Expect(err).To(MatchError(ContainSubstring("invalid items[0].price \"1,000.00\"")))
		})

		It("should reject amounts with too many integer digits", func() {
			_, err := ParseAmount("total", "1000000000000.00")
			Expect(err).To(HaveOccurred())
		})

		It("should reject a trailing decimal point", func() {
			_, err := ParseAmount("total", "5.")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("cent checks", func() {
		It("should classify round dollar amounts", func() {
			whole, _ := ParseAmount("total", "12.00")
			fractional, _ := ParseAmount("total", "12.01")
			Expect(isRoundDollar(whole)).To(BeTrue())
			Expect(isRoundDollar(fractional)).To(BeFalse())
		})

		It("should classify quarter multiples without floating point", func() {
			quarter, _ := ParseAmount("total", "35.25")
			notQuarter, _ := ParseAmount("total", "35.35")
			Expect(isQuarterMultiple(quarter)).To(BeTrue())
			Expect(isQuarterMultiple(notQuarter)).To(BeFalse())
		})
	})
})
