package sheets

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"receiptranger/internal/receipt"
)

var header = []string{"Amount", "Date", "", "Vendor", "Category"}

var _ = Describe("ExistingKeys", func() {
	var (
		api        *mockAPI
		reconciler *Reconciler
	)

	BeforeEach(func() {
		api = newMockAPI()
		reconciler = NewReconciler(api)
	})

	It("unions keys across all worksheets", func() {
		api.setRows("January 2026", [][]string{
			header,
			{"12.5", "01/15/2026", "", "HEB", "Groceries"},
		})
		api.setRows("February 2026", [][]string{
			header,
			{"30", "02/01/2026", "", "CVS", "Health & Pharmacy"},
		})

		keys, err := reconciler.ExistingKeys(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(HaveLen(2))
		Expect(keys).To(HaveKey(receipt.ExternalKey{Date: "01/15/2026", Amount: "12.5", Vendor: "HEB"}))
		Expect(keys).To(HaveKey(receipt.ExternalKey{Date: "02/01/2026", Amount: "30", Vendor: "CVS"}))
	})

	It("locates columns by header name rather than position", func() {
		api.setRows("January 2026", [][]string{
			{"Vendor", "Amount", "Date"},
			{"HEB", "12.5", "01/15/2026"},
		})

		keys, err := reconciler.ExistingKeys(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(HaveKey(receipt.ExternalKey{Date: "01/15/2026", Amount: "12.5", Vendor: "HEB"}))
	})

	It("skips rows missing any key field", func() {
		api.setRows("January 2026", [][]string{
			header,
			{"", "01/15/2026", "", "HEB", ""},
			{"12.5", "", "", "HEB", ""},
		})

		keys, err := reconciler.ExistingKeys(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(BeEmpty())
	})

	It("propagates listing failures", func() {
		api.titlesErr = errors.New("api down")
		_, err := reconciler.ExistingKeys(context.Background())
		Expect(err).To(HaveOccurred())
	})

	It("propagates read failures", func() {
		api.setRows("January 2026", [][]string{header})
		api.readErr = errors.New("api down")
		_, err := reconciler.ExistingKeys(context.Background())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("FilterNew", func() {
	var (
		api        *mockAPI
		reconciler *Reconciler
	)

	BeforeEach(func() {
		api = newMockAPI()
		reconciler = NewReconciler(api)
		api.setRows("January 2026", [][]string{
			header,
			{"12.5", "01/15/2026", "", "HEB", "Groceries"},
		})
	})

	It("drops receipts already present in the spreadsheet", func() {
		fresh, err := reconciler.FilterNew(context.Background(), []receipt.Receipt{
			{Amount: 12.5, Date: "01/15/2026", Vendor: "HEB"},
			{Amount: 30, Date: "01/20/2026", Vendor: "CVS"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh).To(HaveLen(1))
		Expect(fresh[0].Vendor).To(Equal("CVS"))
	})

	It("fails rather than guessing when the spreadsheet cannot be read", func() {
		api.readErr = errors.New("api down")
		_, err := reconciler.FilterNew(context.Background(), []receipt.Receipt{
			{Amount: 30, Date: "01/20/2026", Vendor: "CVS"},
		})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Upload", func() {
	var (
		api        *mockAPI
		reconciler *Reconciler
	)

	BeforeEach(func() {
		api = newMockAPI()
		reconciler = NewReconciler(api)
	})

	It("creates missing monthly worksheets with a header row", func() {
		count, errs := reconciler.Upload(context.Background(), []receipt.Receipt{
			{Amount: 12.5, Date: "01/15/2026", Vendor: "HEB", Category: []string{"Groceries"}},
		})
		Expect(errs).To(BeEmpty())
		Expect(count).To(Equal(1))
		Expect(api.createCalls).To(Equal(1))
		Expect(api.rows["January 2026"]).To(HaveLen(2))
		Expect(api.rows["January 2026"][0]).To(Equal(header))
		Expect(api.rows["January 2026"][1]).To(Equal([]string{"12.5", "01/15/2026", "", "HEB", "Groceries"}))
	})

	It("routes receipts to their month's worksheet", func() {
		count, errs := reconciler.Upload(context.Background(), []receipt.Receipt{
			{Amount: 12.5, Date: "01/15/2026", Vendor: "HEB"},
			{Amount: 30, Date: "02/01/2026", Vendor: "CVS"},
		})
		Expect(errs).To(BeEmpty())
		Expect(count).To(Equal(2))
		Expect(api.rows).To(HaveKey("January 2026"))
		Expect(api.rows).To(HaveKey("February 2026"))
	})

	It("skips per-worksheet duplicates", func() {
		api.setRows("January 2026", [][]string{
			header,
			{"12.5", "01/15/2026", "", "HEB", "Groceries"},
		})

		count, errs := reconciler.Upload(context.Background(), []receipt.Receipt{
			{Amount: 12.5, Date: "01/15/2026", Vendor: "HEB", Category: []string{"Groceries"}},
		})
		Expect(errs).To(BeEmpty())
		Expect(count).To(BeZero())
		Expect(api.appendCalls).To(BeZero())
	})

	It("will not append the same receipt twice within one upload", func() {
		rec := receipt.Receipt{Amount: 12.5, Date: "01/15/2026", Vendor: "HEB"}
		count, errs := reconciler.Upload(context.Background(), []receipt.Receipt{rec, rec})
		Expect(errs).To(BeEmpty())
		Expect(count).To(Equal(1))
	})

	It("reports unparseable dates and continues", func() {
		count, errs := reconciler.Upload(context.Background(), []receipt.Receipt{
			{Amount: 10, Date: "sometime in March", Vendor: "A"},
			{Amount: 20, Date: "01/15/2026", Vendor: "B"},
		})
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Error()).To(ContainSubstring("sometime in March"))
		Expect(count).To(Equal(1))
	})

	It("collects append failures per receipt", func() {
		api.setRows("January 2026", [][]string{header})
		api.appendErr = errors.New("quota exceeded")

		count, errs := reconciler.Upload(context.Background(), []receipt.Receipt{
			{Amount: 10, Date: "01/15/2026", Vendor: "A"},
		})
		Expect(count).To(BeZero())
		Expect(errs).To(HaveLen(1))
	})
})
