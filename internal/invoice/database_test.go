package invoice

import (
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-ocr/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	newInvoice := func(id, number string, created time.Time) *Invoice {
		return &Invoice{
			ID:     id,
			Source: SourceScan,
			Status: extraction.StatusExtracted,
			Record: extraction.Assemble([]extraction.LineItem{{
				ProductCode: "IDAO123",
				Name:        "Reactif Test",
				Quantity:    decimal.NewFromInt(10),
				Unit:        "Flacons",
				UnitPrice:   decimal.RequireFromString("12.5"),
				Subtotal:    decimal.NewFromInt(125),
			}}, extraction.Header{PartnerName: "CNTS N'DJAMENA", InvoiceNumber: number}),
			CreatedAt: created,
			UpdatedAt: created,
		}
	}

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveInvoice and GetInvoice", func() {
		It("should keep the record intact", func() {
			Expect(db.SaveInvoice(newInvoice("a", "457", time.Now()))).To(Succeed())

			saved, err := db.GetInvoice("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Record.PartnerName).To(Equal("CNTS N'DJAMENA"))
			Expect(saved.Record.LineItems).To(HaveLen(1))
			Expect(saved.Record.LineItems[0].UnitPrice.Equal(decimal.RequireFromString("12.5"))).To(BeTrue())
		})

		It("should return ErrNotFound for an unknown id", func() {
			_, err := db.GetInvoice("missing")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("should survive reopening the file", func() {
			Expect(db.SaveInvoice(newInvoice("a", "457", time.Now()))).To(Succeed())
			Expect(db.Close()).To(Succeed())

			var err error
			db, err = NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			_, err = db.GetInvoice("a")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ListInvoices", func() {
		It("should return an empty list for an empty database", func() {
			invoices, err := db.ListInvoices()
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).NotTo(BeNil())
			Expect(invoices).To(BeEmpty())
		})

		It("should list newest first", func() {
			base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
			Expect(db.SaveInvoice(newInvoice("old", "1", base))).To(Succeed())
			Expect(db.SaveInvoice(newInvoice("new", "2", base.Add(time.Hour)))).To(Succeed())

			invoices, err := db.ListInvoices()
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(2))
			Expect(invoices[0].ID).To(Equal("new"))
			Expect(invoices[1].ID).To(Equal("old"))
		})
	})

	Describe("FindByNumber", func() {
		BeforeEach(func() {
			Expect(db.SaveInvoice(newInvoice("a", "FA-457", time.Now()))).To(Succeed())
		})

		It("should match ignoring case and spaces", func() {
			found, err := db.FindByNumber(" fa-457 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal("a"))
		})

		It("should return ErrNotFound for an unknown number", func() {
			_, err := db.FindByNumber("999")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("should never match an empty number", func() {
			Expect(db.SaveInvoice(newInvoice("b", "", time.Now()))).To(Succeed())
			_, err := db.FindByNumber("")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("DeleteInvoice", func() {
		It("should remove the invoice", func() {
			Expect(db.SaveInvoice(newInvoice("a", "1", time.Now()))).To(Succeed())
			Expect(db.DeleteInvoice("a")).To(Succeed())

			_, err := db.GetInvoice("a")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("should return ErrNotFound for an unknown id", func() {
			Expect(db.DeleteInvoice("missing")).To(MatchError(ErrNotFound))
		})
	})
})
