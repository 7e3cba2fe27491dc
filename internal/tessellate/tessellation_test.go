package tessellate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/tessellate"
)

func mustColors(specs ...string) *tessellate.ColorTable {
	c, err := tessellate.ParseColors(specs)
	Expect(err).NotTo(HaveOccurred())
	return c
}

// identityField stores each sample's (row, col) as its coordinates.
func identityField(size int) *mobius.Field {
	f := mobius.NewField(size)
	n := size + 1
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			f.Put(r*n+c, complex(float64(r), float64(c)), true)
		}
	}
	return f
}

var _ = Describe("Layout", func() {
	DescribeTable("tile count",
		func(size, xs, ys, colors, want int) {
			specs := make([]string, colors)
			for i := range specs {
				specs[i] = "white"
			}
			tess := tessellate.New(size, xs, ys, mustColors(specs...))
			Expect(tess.Len()).To(Equal(want))
		},
		Entry("two colours, 16x8 strides", 256, 16, 8, 2, 256),
		Entry("three colours", 256, 16, 16, 3, 171),
		Entry("four colours, fine strides", 256, 4, 4, 4, 3072),
		Entry("stride above grid size", 256, 512, 8, 2, 0),
		Entry("stride equal to grid size", 256, 256, 256, 2, 1),
	)

	It("closes every outline", func() {
		l := tessellate.NewLayout(256, 16, 8)
		for _, c := range l.Cells[:10] {
			p := l.Path(c)
			Expect(p.Len()).To(Equal(l.PathLen()))

			first := p[0]
			last := p[3]
			Expect(last.Row + (last.Len-1)*last.DRow).To(Equal(first.Row))
			Expect(last.Col + (last.Len-1)*last.DCol).To(Equal(first.Col))
		}
	})

	It("numbers bands across both axes", func() {
		l := tessellate.NewLayout(256, 16, 8)
		Expect(l.Cells).To(HaveLen(16 * 32))
		Expect(l.Cells[0].Band).To(Equal(0))
		Expect(l.Cells[1]).To(Equal(tessellate.Cell{Row: 0, Col: 8, Band: 1}))
		Expect(l.Cells[32]).To(Equal(tessellate.Cell{Row: 16, Col: 0, Band: 1}))
	})
})

var _ = Describe("Tessellation", func() {
	var tess *tessellate.Tessellation

	BeforeEach(func() {
		tess = tessellate.New(256, 16, 8, mustColors("white", "black"))
	})

	It("walks the cell boundary in order", func() {
		polys := tess.Evaluate(identityField(256))
		Expect(polys).To(HaveLen(256))

		v := polys[0].Vertices
		Expect(v).To(HaveLen(2*16 + 2*8 + 1))
		Expect(v[0]).To(Equal(mobius.Vertex{X: 0, Y: 8, Valid: true}))
		Expect(v[15]).To(Equal(mobius.Vertex{X: 15, Y: 8, Valid: true}))
		Expect(v[16]).To(Equal(mobius.Vertex{X: 16, Y: 8, Valid: true}))
		Expect(v[24]).To(Equal(mobius.Vertex{X: 16, Y: 0, Valid: true}))
		Expect(v[40]).To(Equal(mobius.Vertex{X: 0, Y: 0, Valid: true}))
		Expect(v[len(v)-1]).To(Equal(v[0]))
	})

	It("paints class c with colour c+1", func() {
		polys := tess.Evaluate(identityField(256))
		black := tess.Colors.At(1)
		for _, p := range polys {
			Expect(p.Class).To(Equal(0))
			Expect(p.Color).To(Equal(black))
		}
	})

	It("keeps geometry when colours change", func() {
		recolored := tess.WithColors(mustColors("#102030", "orange"))
		Expect(recolored.Layout).To(BeIdenticalTo(tess.Layout))
		Expect(recolored.Tiles).To(Equal(tess.Tiles))

		before := tess.Evaluate(identityField(256))
		after := recolored.Evaluate(identityField(256))
		for i := range before {
			Expect(after[i].Vertices).To(Equal(before[i].Vertices))
		}
		Expect(after[0].Color.Hex()).To(Equal("#ffa500"))
	})

	It("reassigns tiles when the palette grows", func() {
		three := tess.WithColors(mustColors("white", "red", "blue"))
		Expect(three.Layout).To(BeIdenticalTo(tess.Layout))
		Expect(three.Len()).To(Equal(342))
	})

	It("returns no polygons for an empty layout", func() {
		empty := tessellate.New(256, 512, 512, mustColors("white", "black"))
		Expect(empty.Evaluate(identityField(256))).To(BeEmpty())
	})
})

var _ = Describe("Polygon", func() {
	v := func(x float64) mobius.Vertex { return mobius.Vertex{X: x, Valid: true} }
	gap := mobius.Vertex{}

	It("splits outlines at invalid vertices", func() {
		p := tessellate.Polygon{Vertices: []mobius.Vertex{v(1), v(2), gap, v(3), gap, gap, v(4), v(5)}}
		runs := p.Runs()
		Expect(runs).To(HaveLen(3))
		Expect(runs[0]).To(HaveLen(2))
		Expect(runs[1]).To(HaveLen(1))
		Expect(runs[2]).To(HaveLen(2))
		Expect(p.Complete()).To(BeFalse())
	})

	It("keeps a valid outline whole", func() {
		p := tessellate.Polygon{Vertices: []mobius.Vertex{v(1), v(2), v(1)}}
		Expect(p.Runs()).To(HaveLen(1))
		Expect(p.Complete()).To(BeTrue())
	})
})

var _ = Describe("ColorTable", func() {
	It("rejects fewer than two colours", func() {
		_, err := tessellate.ParseColors([]string{"white"})
		Expect(err).To(MatchError(mobius.ErrConfiguration))
	})

	It("rejects unknown colours", func() {
		_, err := tessellate.ParseColors([]string{"white", "blurple"})
		Expect(err).To(MatchError(mobius.ErrConfiguration))
	})

	It("accepts names and hex values", func() {
		c := mustColors("White", "#000", "ff8000")
		Expect(c.Len()).To(Equal(3))
		Expect(c.Hex()).To(Equal([]string{"#ffffff", "#000000", "#ff8000"}))
		Expect(c.Background().Hex()).To(Equal("#ffffff"))
		Expect(c.Tile(0).Hex()).To(Equal("#000000"))
	})
})
