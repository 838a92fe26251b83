package sheets

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("realignRow", func() {
	It("passes an aligned row through unchanged", func() {
		record, shifted, ok := realignRow([]string{"12.50", "01/15/2026", "", "HEB", "Groceries"})
		Expect(ok).To(BeTrue())
		Expect(shifted).To(BeFalse())
		Expect(record).To(Equal([]string{"12.50", "01/15/2026", "", "HEB", "Groceries"}))
	})

	It("pulls a right-shifted record back to the first column", func() {
		record, shifted, ok := realignRow([]string{"", "", "12.50", "01/15/2026", "", "HEB", "Groceries"})
		Expect(ok).To(BeTrue())
		Expect(shifted).To(BeTrue())
		Expect(record).To(Equal([]string{"12.50", "01/15/2026", "", "HEB", "Groceries"}))
	})

	It("pads short rows to the record width", func() {
		record, _, ok := realignRow([]string{"12.50", "01/15/2026"})
		Expect(ok).To(BeTrue())
		Expect(record).To(Equal([]string{"12.50", "01/15/2026", "", "", ""}))
	})

	It("accepts currency-formatted amounts", func() {
		_, _, ok := realignRow([]string{"$1,234.56", "01/15/2026", "", "HEB", ""})
		Expect(ok).To(BeTrue())
	})

	It("rejects rows that do not lead with an amount", func() {
		_, _, ok := realignRow([]string{"HEB", "12.50", "01/15/2026"})
		Expect(ok).To(BeFalse())
	})

	It("rejects entirely blank rows", func() {
		_, _, ok := realignRow([]string{"", "", ""})
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("RepairWorksheet", func() {
	var (
		api        *mockAPI
		reconciler *Reconciler
	)

	BeforeEach(func() {
		api = newMockAPI()
		reconciler = NewReconciler(api)
	})

	It("leaves an empty worksheet alone", func() {
		api.setRows("January 2026", nil)
		rewrote, err := reconciler.RepairWorksheet(context.Background(), "January 2026")
		Expect(err).NotTo(HaveOccurred())
		Expect(rewrote).To(BeFalse())
		Expect(api.overwriteCalls).To(BeZero())
	})

	It("realigns shifted rows and restores the header", func() {
		api.setRows("January 2026", [][]string{
			{"Amount", "Date"},
			{"", "", "12.50", "01/15/2026", "", "HEB", "Groceries"},
			{"30", "01/20/2026", "", "CVS", "Health & Pharmacy"},
		})

		rewrote, err := reconciler.RepairWorksheet(context.Background(), "January 2026")
		Expect(err).NotTo(HaveOccurred())
		Expect(rewrote).To(BeTrue())
		Expect(api.rows["January 2026"]).To(Equal([][]string{
			header,
			{"12.50", "01/15/2026", "", "HEB", "Groceries"},
			{"30", "01/20/2026", "", "CVS", "Health & Pharmacy"},
		}))
	})

	It("drops unsalvageable rows", func() {
		api.setRows("January 2026", [][]string{
			header,
			{"not a number", "junk"},
			{"30", "01/20/2026", "", "CVS", "Health & Pharmacy"},
		})

		rewrote, err := reconciler.RepairWorksheet(context.Background(), "January 2026")
		Expect(err).NotTo(HaveOccurred())
		Expect(rewrote).To(BeTrue())
		Expect(api.rows["January 2026"]).To(HaveLen(2))
	})

	It("is idempotent", func() {
		api.setRows("January 2026", [][]string{
			{"Amount", "Date"},
			{"", "", "12.50", "01/15/2026", "", "HEB", "Groceries"},
		})

		rewrote, err := reconciler.RepairWorksheet(context.Background(), "January 2026")
		Expect(err).NotTo(HaveOccurred())
		Expect(rewrote).To(BeTrue())

		rewrote, err = reconciler.RepairWorksheet(context.Background(), "January 2026")
		Expect(err).NotTo(HaveOccurred())
		Expect(rewrote).To(BeFalse())
		Expect(api.overwriteCalls).To(Equal(1))
	})

	It("tolerates short aligned rows without rewriting", func() {
		// Trailing blank cells are dropped on read, so a short-but-aligned
		// row must not count as dirty.
		api.setRows("January 2026", [][]string{
			header,
			{"12.50", "01/15/2026", "", "HEB"},
		})

		rewrote, err := reconciler.RepairWorksheet(context.Background(), "January 2026")
		Expect(err).NotTo(HaveOccurred())
		Expect(rewrote).To(BeFalse())
		Expect(api.overwriteCalls).To(BeZero())
	})

	It("propagates rewrite failures", func() {
		api.setRows("January 2026", [][]string{
			{"wrong header"},
			{"12.50", "01/15/2026", "", "HEB", ""},
		})
		api.overwriteErr = errors.New("quota exceeded")

		_, err := reconciler.RepairWorksheet(context.Background(), "January 2026")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RepairAll", func() {
	It("reports the worksheets that were rewritten", func() {
		api := newMockAPI()
		reconciler := NewReconciler(api)

		api.setRows("January 2026", [][]string{
			header,
			{"12.50", "01/15/2026", "", "HEB", "Groceries"},
		})
		api.setRows("February 2026", [][]string{
			header,
			{"", "30", "02/01/2026", "", "CVS", "Health & Pharmacy"},
		})

		repaired, err := reconciler.RepairAll(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(repaired).To(Equal([]string{"February 2026"}))
	})
})
