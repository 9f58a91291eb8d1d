package catalog_test

import (
	"context"
	"math"
	"path/filepath"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"honnef.co/go/lens"
	"honnef.co/go/lens/catalog"
)

func doublet() *lens.Lens {
	return &lens.Lens{
		Name:      "doublet",
		Material:  "N-SF5",
		Thickness: 2.2,
		Left:      &lens.Sphere{InnerDiameter: 24, OuterDiameter: 25.4, Radius: -22.28},
		Right: &lens.OddAsphere{
			InnerDiameter: 24, OuterDiameter: 25.4, Radius: math.Inf(1), Conic: 0,
			Coefficients: []float64{1e-5, 0, -4e-9},
		},
	}
}

var _ = Describe("Catalog", func() {
	var (
		ctx context.Context
		cat *catalog.Catalog
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		cat, err = catalog.Open(filepath.Join(GinkgoT().TempDir(), "lenses.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(cat.Close)
	})

	It("round-trips lenses", func() {
		want := doublet()
		id, err := cat.Put(ctx, want)
		Expect(err).NotTo(HaveOccurred())
		Expect(uuid.Parse(id)).Error().NotTo(HaveOccurred())

		got, err := cat.Get(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("keeps flat surfaces flat", func() {
		id, err := cat.Put(ctx, lens.NewLens())
		Expect(err).NotTo(HaveOccurred())
		got, err := cat.Get(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Left.BaseRadius()).To(Equal(math.Inf(1)))
		Expect(got.Right).To(BeAssignableToTypeOf(&lens.Sphere{}))
	})

	It("lists entries in insertion order", func() {
		names := []string{"first", "second", "third"}
		var ids []string
		for _, name := range names {
			l := doublet()
			l.Name = name
			id, err := cat.Put(ctx, l)
			Expect(err).NotTo(HaveOccurred())
			ids = append(ids, id)
		}

		entries, err := cat.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(3))
		for i, e := range entries {
			Expect(e.ID).To(Equal(ids[i]))
			Expect(e.Name).To(Equal(names[i]))
			Expect(e.Material).To(Equal("N-SF5"))
			Expect(e.CreatedAt).NotTo(BeZero())
		}
	})

	It("finds lenses by name", func() {
		for _, name := range []string{"a", "b", "a"} {
			l := doublet()
			l.Name = name
			_, err := cat.Put(ctx, l)
			Expect(err).NotTo(HaveOccurred())
		}
		entries, err := cat.FindByName(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].ID).NotTo(Equal(entries[1].ID))

		entries, err = cat.FindByName(ctx, "c")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("deletes lenses", func() {
		id, err := cat.Put(ctx, doublet())
		Expect(err).NotTo(HaveOccurred())

		Expect(cat.Delete(ctx, id)).To(Succeed())
		_, err = cat.Get(ctx, id)
		Expect(err).To(MatchError(catalog.ErrNotFound))
		Expect(cat.Delete(ctx, id)).To(MatchError(catalog.ErrNotFound))
	})

	It("reports unknown ids", func() {
		_, err := cat.Get(ctx, uuid.NewString())
		Expect(err).To(MatchError(catalog.ErrNotFound))
	})

	It("persists across reopening", func() {
		path := filepath.Join(GinkgoT().TempDir(), "persist.db")
		first, err := catalog.Open(path)
		Expect(err).NotTo(HaveOccurred())
		id, err := first.Put(ctx, doublet())
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Close()).To(Succeed())

		second, err := catalog.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer second.Close()
		got, err := second.Get(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("doublet"))
	})

	It("supports in-memory catalogs", func() {
		mem, err := catalog.Open(":memory:")
		Expect(err).NotTo(HaveOccurred())
		defer mem.Close()
		_, err = mem.Put(ctx, doublet())
		Expect(err).NotTo(HaveOccurred())
		Expect(mem.List(ctx)).To(HaveLen(1))
	})
})
