package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Segmenter", func() {
	var (
		lines []string
		seg   *Segmenter
		tok   *Tokenizer
	)

	JustBeforeEach(func() {
		layout := mustCompile(DefaultLayout())
		seg = newSegmenter(layout)
		tok = newTokenizer(layout)
		seg.Walk(lines, tok)
	})

	When("no section markers are present", func() {
		BeforeEach(func() {
			lines = []string{
				"IDAO123 Reactif Test",
				"10 Flacons",
				"12,50 125,00",
			}
		})

		It("should never enter the items section", func() {
			Expect(seg.Entered()).To(BeFalse())
		})

		It("should produce no items", func() {
			Expect(tok.Items()).To(BeEmpty())
		})
	})

	When("lines sit outside the markers", func() {
		BeforeEach(func() {
			lines = []string{
				"IDAO0 Before",
				"DÉSIGNATION  QTÉ  PU",
				"IDAO1 Inside",
				"ARRETÉE LA PRÉSENTE FACTURE",
				"IDAO2 After",
			}
		})

		It("should match markers case-insensitively", func() {
			Expect(seg.Entered()).To(BeTrue())
		})

		It("should only forward lines between them", func() {
			Expect(tok.Items()).To(HaveLen(1))
			Expect(tok.Items()[0].Name).To(Equal("Inside"))
		})
	})

	When("the input ends inside the section", func() {
		BeforeEach(func() {
			lines = []string{
				"Désignation",
				"IDAO1 Open",
				"2 Flacons",
			}
		})

		It("should close the pending item", func() {
			Expect(tok.Items()).To(HaveLen(1))
			Expect(tok.Items()[0].Quantity.InexactFloat64()).To(Equal(2.0))
		})

		It("should return to outside", func() {
			Expect(seg.state).To(Equal(outsideItems))
		})
	})

	When("the section repeats on a second page", func() {
		BeforeEach(func() {
			lines = []string{
				"Désignation",
				"IDAO1 Page one",
				"Arretée la présente facture",
				"Page 2",
				"Désignation",
				"IDAO2 Page two",
				"Arretée la présente facture",
			}
		})

		It("should keep items from both sections", func() {
			Expect(tok.Items()).To(HaveLen(2))
			Expect(tok.Items()[1].Name).To(Equal("Page two"))
		})
	})

	When("an end marker comes first", func() {
		BeforeEach(func() {
			lines = []string{
				"Arretée la présente facture",
				"IDAO1 Stray",
			}
		})

		It("should stay outside", func() {
			Expect(seg.Entered()).To(BeFalse())
			Expect(tok.Items()).To(BeEmpty())
		})
	})
})
