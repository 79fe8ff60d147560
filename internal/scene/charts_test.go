package scene_test

import (
	"fmt"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scene"
)

var _ = Describe("TopSales", func() {
	// Global sales 10..1 plus 0.5, shuffled.
	values := []string{"3", "0.5", "10", "7", "1", "9", "5", "8", "2", "6", "4"}
	records := make([]dataset.SalesRecord, len(values))
	for i, v := range values {
		records[i] = sale("Game "+v, "Action", "2000", v)
	}
	frame := scene.NewFrame(scene.DefaultSize, scene.TopSalesMargin)

	It("keeps the ten best sellers in descending order", func() {
		chart := scene.BuildTopSales(records, scene.DefaultTopN, frame)
		Expect(chart.Bars).To(HaveLen(10))
		for i, b := range chart.Bars {
			Expect(b.Value).To(Equal(float64(10 - i)))
			Expect(b.Record.Name).NotTo(Equal("Game 0.5"))
		}
		Expect(chart.Bars[0].Width).To(BeNumerically("~", frame.InnerWidth(), 1e-9))
	})

	It("does not reorder the shared records", func() {
		before := append([]dataset.SalesRecord(nil), records...)
		scene.TopSales(records, 10)
		Expect(records).To(Equal(before))
	})

	It("keeps input order for ties and puts unparseable sales last", func() {
		in := []dataset.SalesRecord{
			sale("a", "", "", "n/a"),
			sale("b", "", "", "2"),
			sale("c", "", "", "3"),
			sale("d", "", "", "2"),
		}
		var names []string
		for _, r := range scene.TopSales(in, 10) {
			names = append(names, r.Name)
		}
		Expect(names).To(Equal([]string{"c", "b", "d", "a"}))
	})

	It("uses every record when there are fewer than ten", func() {
		chart := scene.BuildTopSales(records[:3], scene.DefaultTopN, frame)
		Expect(chart.Bars).To(HaveLen(3))
	})

	It("draws one bar and one label per record", func() {
		root := dom.New("div")
		scene.BuildTopSales(records, scene.DefaultTopN, frame).Draw(root)
		bars := root.FindAll(dom.ByClass("bar"))
		labels := root.FindAll(dom.ByClass("bar-label"))
		Expect(bars).To(HaveLen(10))
		Expect(labels).To(HaveLen(10))

		fill, _ := bars[0].Get("fill")
		Expect(fill).To(Equal("#69b3a2"))
		x, _ := labels[0].Get("x")
		Expect(x).To(Equal("-15"))
		Expect(labels[0].TextContent()).To(Equal("Game 10"))
	})

	It("survives an empty dataset", func() {
		root := dom.New("div")
		chart := scene.BuildTopSales(nil, 10, frame)
		Expect(chart.Bars).To(BeEmpty())
		chart.Draw(root)
		Expect(root.FindAll(dom.ByClass("bar"))).To(BeEmpty())
	})
})

var _ = Describe("Trends", func() {
	// Sports years are listed out of order on purpose.
	points := []dataset.GenreYearPoint{
		{Genre: "Action", Year: "2000", GlobalSales: "5"},
		{Genre: "Sports", Year: "2001", GlobalSales: "4"},
		{Genre: "Action", Year: "2001", GlobalSales: "7"},
		{Genre: "Sports", Year: "2000", GlobalSales: "3"},
	}
	frame := scene.NewFrame(scene.DefaultSize, scene.TrendsMargin)

	It("draws one connected line per genre", func() {
		chart := scene.BuildTrends(points, frame)
		Expect(chart.Genres).To(Equal([]string{"Action", "Sports"}))
		Expect(chart.Lines).To(HaveLen(2))
		for _, l := range chart.Lines {
			Expect(l.Points).To(HaveLen(2))
			Expect(l.Points[0].Year).To(Equal(2000.0))
			Expect(l.Points[1].Year).To(Equal(2001.0))
			Expect(strings.Count(l.Path(), "M")).To(Equal(1))
			Expect(strings.Count(l.Path(), "L")).To(Equal(1))
		}
		Expect(chart.Lines[0].Points[0].X).To(Equal(0.0))
		Expect(chart.Lines[0].Points[1].X).To(BeNumerically("~", frame.InnerWidth(), 1e-9))
	})

	It("gives genres distinct colors that survive a re-render", func() {
		first := scene.BuildTrends(points, frame)
		second := scene.BuildTrends(points, frame)
		Expect(first.Lines[0].Color).NotTo(Equal(first.Lines[1].Color))
		for i := range first.Lines {
			Expect(second.Lines[i].Genre).To(Equal(first.Lines[i].Genre))
			Expect(second.Lines[i].Color).To(Equal(first.Lines[i].Color))
		}
	})

	It("rounds the sales axis to nice bounds", func() {
		chart := scene.BuildTrends([]dataset.GenreYearPoint{
			{Genre: "Action", Year: "2000", GlobalSales: "0.93"},
			{Genre: "Action", Year: "2001", GlobalSales: "7.3"},
		}, frame)
		lo, hi := chart.Y.Domain()
		Expect(lo).To(Equal(0.0))
		Expect(hi).To(Equal(8.0))
	})

	It("draws paths, axes and a legend entry per genre", func() {
		root := dom.New("div")
		scene.BuildTrends(points, frame).Draw(root)
		paths := root.FindAll(dom.ByClass("trend"))
		Expect(paths).To(HaveLen(2))
		width, _ := paths[0].Get("stroke-width")
		Expect(width).To(Equal("2"))
		Expect(root.FindAll(dom.ByClass("legend-swatch"))).To(HaveLen(2))
		Expect(root.FindAll(dom.ByClass("axis"))).To(HaveLen(2))

		labels := root.FindAll(dom.ByClass("legend-label"))
		Expect(labels[1].TextContent()).To(Equal("Sports"))
		y, _ := labels[1].Get("y")
		Expect(y).To(Equal("29"))
	})

	It("labels years without digit grouping", func() {
		root := dom.New("div")
		scene.BuildTrends(points, frame).Draw(root)
		xAxis := root.Find(dom.ByClass("axis-x"))
		Expect(xAxis.Find(dom.ByName("text")).TextContent()).To(Equal("2000"))
	})

	It("handles a resource without rows", func() {
		chart := scene.BuildTrends(nil, frame)
		Expect(chart.Lines).To(BeEmpty())
		chart.Draw(dom.New("div"))
	})
})

var _ = Describe("Regions", func() {
	rows := []dataset.GenreRegionRow{
		{Genre: "Action", NASales: "2", EUSales: "1", JPSales: "0.5", OtherSales: "0.5"},
	}
	frame := scene.NewFrame(scene.DefaultSize, scene.RegionsMargin)

	It("stacks segments whose heights add up to the total", func() {
		chart := scene.BuildRegions(rows, frame)
		Expect(chart.Segments).To(HaveLen(4))

		sum := 0.0
		for _, s := range chart.Segments {
			sum += s.Height
		}
		Expect(sum).To(BeNumerically("~", chart.Y.Map(0)-chart.Y.Map(4), 1e-9))
	})

	It("orders segments NA, EU, JP, Other from the bottom up", func() {
		chart := scene.BuildRegions(rows, frame)
		want := []scene.Span{{Y0: 0, Y1: 2}, {Y0: 2, Y1: 3}, {Y0: 3, Y1: 3.5}, {Y0: 3.5, Y1: 4}}
		for i, s := range chart.Segments {
			Expect(s.Region).To(Equal(dataset.Regions[i]))
			Expect(s.Span).To(Equal(want[i]))
			if i > 0 {
				Expect(s.Y + s.Height).To(BeNumerically("~", chart.Segments[i-1].Y, 1e-9))
			}
		}
	})

	It("colors every region differently", func() {
		chart := scene.BuildRegions(rows, frame)
		seen := make(map[string]bool)
		for _, s := range chart.Segments {
			seen[s.Color] = true
		}
		Expect(seen).To(HaveLen(4))
	})

	It("keeps the running sum when a value is not a number", func() {
		spans := scene.Stack([]float64{1, math.NaN(), 2})
		Expect(spans[0]).To(Equal(scene.Span{Y0: 0, Y1: 1}))
		Expect(spans[1].Y0).To(Equal(1.0))
		Expect(math.IsNaN(spans[1].Y1)).To(BeTrue())
		Expect(spans[2]).To(Equal(scene.Span{Y0: 1, Y1: 3}))
	})

	It("skips segments whose value is not a number", func() {
		odd := []dataset.GenreRegionRow{
			{Genre: "Action", NASales: "2", EUSales: "n/a", JPSales: "0.5", OtherSales: "0.5"},
		}
		chart := scene.BuildRegions(odd, frame)
		Expect(chart.Segments).To(HaveLen(4))

		root := dom.New("div")
		chart.Draw(root)
		segments := root.FindAll(dom.ByClass("segment"))
		Expect(segments).To(HaveLen(3))
		for _, seg := range segments {
			region, _ := seg.Get("data-region")
			Expect(region).NotTo(Equal(dataset.RegionEU.String()))
			height, _ := seg.Get("height")
			Expect(height).NotTo(Equal("NaN"))
		}
	})

	It("draws a segment per genre and region with rotated labels", func() {
		two := append(rows, dataset.GenreRegionRow{
			Genre: "Sports", NASales: "1", EUSales: "1", JPSales: "1", OtherSales: "1",
		})
		root := dom.New("div")
		scene.BuildRegions(two, frame).Draw(root)
		Expect(root.FindAll(dom.ByClass("segment"))).To(HaveLen(8))
		Expect(root.FindAll(dom.ByClass("layer"))).To(HaveLen(4))

		label := root.Find(dom.ByClass("axis-x")).Find(dom.ByName("text"))
		transform, _ := label.Get("transform")
		Expect(transform).To(Equal("rotate(-40)"))
		Expect(label.TextContent()).To(Equal("Action"))

		legend := root.Find(dom.ByClass("legend"))
		transform, _ = legend.Get("transform")
		Expect(transform).To(Equal(fmt.Sprintf("translate(%s,40)", dom.Num(frame.InnerWidth()-100))))
	})
})
