package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalizer", func() {
	var normalizer *Normalizer

	BeforeEach(func() {
		var err error
		normalizer, err = NewNormalizer(DefaultLayout())
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("correcting known misreads",
		func(input, expected string) {
			Expect(normalizer.Normalize(input)).To(Equal(expected))
		},
		Entry("reference", "Refrence client", "Référence client"),
		Entry("sale", "Facture de Vante", "Facture de Vente"),
		Entry("millilitres", "Flacon 1Oml", "Flacon 10ml"),
		Entry("date artifact", "Date : 10/4023", "Date : 10/10/23"),
		Entry("delivery note", "N'Bon 457", "N°Bon 457"),
		Entry("vendor term", "DétermineAbbot HIV", "Détermine Abbot HIV"),
		Entry("merged test name", "BIOLINEHCV", "BIOLINE HCV"),
		Entry("email", "infoOgmedis.com", "info@gmedis.com"),
		Entry("merged unit count", "10.000Unités", "10 000 Unités"),
		Entry("vials", "20 Flaçons", "20 Flacons"),
		Entry("case-insensitive", "FLAÇONS", "Flacons"),
	)

	DescribeTable("running twice changes nothing",
		func(input string) {
			once := normalizer.Normalize(input)
			Expect(normalizer.Normalize(once)).To(Equal(once))
		},
		Entry("reference", "Refrence"),
		Entry("sale", "Vante"),
		Entry("millilitres", "1Oml"),
		Entry("date artifact", "Date : 10/4023"),
		Entry("correct date", "Date : 10/10/23"),
		Entry("delivery note", "N'Bon"),
		Entry("vendor term", "DétermineAbbot"),
		Entry("merged test name", "BIOLINEHCV"),
		Entry("vendor name", "Sigtagy"),
		Entry("email", "infoOgmedis.com"),
		Entry("merged unit count", "10,000unités"),
		Entry("vials", "Flons"),
	)

	When("the text is already correct", func() {
		It("should leave a well-formed date alone", func() {
			Expect(normalizer.Normalize("Date : 10/10/23")).To(Equal("Date : 10/10/23"))
		})
	})

	When("the text is empty", func() {
		It("should return an empty string", func() {
			Expect(normalizer.Normalize("")).To(BeEmpty())
		})
	})

	When("accents arrive decomposed", func() {
		It("should compose them", func() {
			Expect(normalizer.Normalize("De\u0301signation")).To(Equal("D\u00e9signation"))
		})
	})

	When("rules chain", func() {
		BeforeEach(func() {
			layout := DefaultLayout()
			layout.Corrections = []CorrectionRule{
				{Pattern: `0CR`, Replacement: "OCR"},
				{Pattern: `OCR text`, Replacement: "recognized text"},
			}
			var err error
			normalizer, err = NewNormalizer(layout)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should feed each rule the output of the previous one", func() {
			Expect(normalizer.Normalize("0CR text")).To(Equal("recognized text"))
		})
	})
})
