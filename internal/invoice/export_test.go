package invoice

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-ocr/internal/extraction"
)

var _ = Describe("ExportXLSX", func() {
	var (
		db      *mockDB
		service *Service
		rows    [][]string
		err     error
	)

	BeforeEach(func() {
		db = newMockDB()
		service = NewServiceWithDeps(db, newMockRecognizer(), newPipeline(), newMockStorage(),
			&mockIDGenerator{id: "x"}, &mockTimeSource{now: time.Now()})
	})

	JustBeforeEach(func() {
		var data []byte
		data, err = service.ExportXLSX()
		Expect(err).NotTo(HaveOccurred())

		f, openErr := excelize.OpenReader(bytes.NewReader(data))
		Expect(openErr).NotTo(HaveOccurred())
		defer f.Close()
		rows, err = f.GetRows(exportSheet)
	})

	When("there are no invoices", func() {
		It("should write only the header", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(Equal(exportHeaders))
		})
	})

	When("an invoice has two items", func() {
		BeforeEach(func() {
			db.invoices["a"] = &Invoice{
				ID:     "a",
				Source: SourceScan,
				Record: extraction.Assemble([]extraction.LineItem{
					{ProductCode: "IDAO123", Name: "Reactif Test", Quantity: decimal.NewFromInt(10), Unit: "Flacons",
						UnitPrice: decimal.RequireFromString("12.5"), Subtotal: decimal.NewFromInt(125)},
					{ProductCode: "HENZO45", Name: "BIOLINE HCV"},
				}, extraction.Header{PartnerName: "CNTS N'DJAMENA", InvoiceDate: "2023-10-10", InvoiceNumber: "457"}),
			}
		})

		It("should write one row per item", func() {
			Expect(rows).To(HaveLen(3))
			Expect(rows[1][0]).To(Equal("457"))
			Expect(rows[1][2]).To(Equal("CNTS N'DJAMENA"))
			Expect(rows[1][3]).To(Equal("IDAO123"))
			Expect(rows[1][5]).To(Equal("10"))
			Expect(rows[1][7]).To(Equal("12.5"))
			Expect(rows[1][8]).To(Equal("125"))
			Expect(rows[2][3]).To(Equal("HENZO45"))
			Expect(rows[2][11]).To(Equal("a"))
		})
	})

	When("an invoice has no items", func() {
		BeforeEach(func() {
			db.invoices["empty"] = &Invoice{
				ID:     "empty",
				Source: SourceText,
				Record: extraction.Assemble(nil, extraction.Header{PartnerName: "Unknown Partner"}),
			}
		})

		It("should still write a row for it", func() {
			Expect(rows).To(HaveLen(2))
			Expect(rows[1][2]).To(Equal("Unknown Partner"))
			Expect(rows[1][10]).To(Equal("text"))
			Expect(rows[1][11]).To(Equal("empty"))
		})
	})
})
