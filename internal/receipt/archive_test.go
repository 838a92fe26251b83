package receipt

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltArchive", func() {
	var (
		tmpDir  string
		dbPath  string
		archive *BoltArchive
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		archive, err = NewBoltArchive(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if archive != nil {
			archive.Close()
		}
	})

	Describe("SaveReceipt", func() {
		var (
			receipt *Receipt
			err     error
		)

		BeforeEach(func() {
			receipt = &Receipt{
				SourceHash:     "hash-1",
				Amount:         12.5,
				Date:           "01/15/2026",
				Vendor:         "Taco Cabana",
				Category:       []string{"Food & Restaurants"},
				IsValidReceipt: true,
			}
		})

		JustBeforeEach(func() {
			err = archive.SaveReceipt(receipt)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should store the receipt under its dedup key", func() {
				saved, getErr := archive.GetReceipt("hash-1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Vendor).To(Equal("Taco Cabana"))
			})
		})

		When("a receipt with the same key is saved again", func() {
			JustBeforeEach(func() {
				updated := *receipt
				updated.Amount = 99.0
				Expect(archive.SaveReceipt(&updated)).To(Succeed())
			})

			It("replaces the earlier record", func() {
				saved, getErr := archive.GetReceipt("hash-1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Amount).To(Equal(99.0))
			})

			It("does not grow the archive", func() {
				all, listErr := archive.ListReceipts()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(all).To(HaveLen(1))
			})
		})
	})

	Describe("GetReceipt", func() {
		When("the receipt does not exist", func() {
			It("returns an error", func() {
				_, err := archive.GetReceipt("missing")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not found"))
			})
		})
	})

	Describe("DeleteReceipt", func() {
		BeforeEach(func() {
			Expect(archive.SaveReceipt(&Receipt{SourceHash: "hash-1", Vendor: "A"})).To(Succeed())
		})

		It("removes the receipt", func() {
			Expect(archive.DeleteReceipt("hash-1")).To(Succeed())
			_, err := archive.GetReceipt("hash-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListReceipts", func() {
		When("the archive is empty", func() {
			It("returns an empty list", func() {
				all, err := archive.ListReceipts()
				Expect(err).NotTo(HaveOccurred())
				Expect(all).To(BeEmpty())
			})
		})
	})
})

var _ = Describe("Filter", func() {
	var receipts []Receipt

	BeforeEach(func() {
		receipts = []Receipt{
			{
				SourceHash: "h1",
				Amount:     12.50,
				Date:       "01/15/2026",
				Vendor:     "Taco Cabana",
				Category:   []string{"Food & Restaurants"},
			},
			{
				SourceHash: "h2",
				Amount:     55.00,
				Date:       "02/20/2026",
				Vendor:     "Target",
				Category:   []string{"Clothing & Shoes"},
			},
		}
	})

	It("matches everything when unset", func() {
		f := NewFilter()
		Expect(f.Match(receipts[0])).To(BeTrue())
		Expect(f.Match(receipts[1])).To(BeTrue())
	})

	It("filters by month, vendor, amount range, and category together", func() {
		f := NewFilter()
		f.Month = "2026-01"
		f.Vendor = "taco"
		f.MinAmount = 10.0
		f.MaxAmount = 20.0
		f.Category = "Food & Restaurants"
		Expect(f.Match(receipts[0])).To(BeTrue())
		Expect(f.Match(receipts[1])).To(BeFalse())
	})

	It("rejects receipts with unparseable dates when a month is set", func() {
		f := NewFilter()
		f.Month = "2026-01"
		Expect(f.Match(Receipt{Date: "not-a-date"})).To(BeFalse())
	})

	It("treats amount bounds independently", func() {
		f := NewFilter()
		f.MinAmount = 50.0
		Expect(f.Match(receipts[0])).To(BeFalse())
		Expect(f.Match(receipts[1])).To(BeTrue())
	})
})

var _ = Describe("FilterReceipts", func() {
	var archive *BoltArchive

	BeforeEach(func() {
		var err error
		archive, err = NewBoltArchive(filepath.Join(GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())

		Expect(archive.SaveReceipt(&Receipt{SourceHash: "h1", Vendor: "Taco Cabana", Date: "01/15/2026", Amount: 12.5})).To(Succeed())
		Expect(archive.SaveReceipt(&Receipt{SourceHash: "h2", Vendor: "Target", Date: "02/20/2026", Amount: 55})).To(Succeed())
	})

	AfterEach(func() {
		archive.Close()
	})

	It("returns only matching receipts", func() {
		f := NewFilter()
		f.Vendor = "taco"
		matched, err := FilterReceipts(archive, f)
		Expect(err).NotTo(HaveOccurred())
		Expect(matched).To(HaveLen(1))
		Expect(matched[0].Vendor).To(Equal("Taco Cabana"))
	})
})
