package scene_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scene"
)

func tenGames() []dataset.SalesRecord {
	var records []dataset.SalesRecord
	for i := 0; i < 5; i++ {
		year := fmt.Sprint(2000 + i)
		records = append(records,
			sale(fmt.Sprintf("Action %d", i), "Action", year, fmt.Sprint(i+1)),
			sale(fmt.Sprintf("Sports %d", i), "Sports", year, fmt.Sprint(2*(i+1))),
		)
	}
	return records
}

var _ = Describe("Explorer", func() {
	var (
		ctx     context.Context
		ex      *scene.Explorer
		content *dom.Element
	)

	BeforeEach(func() {
		ctx = context.Background()
		ex = scene.NewExplorer(tenGames(), scene.DefaultSize)
		content = dom.New("div")
		ex.Mount(content)
	})

	points := func() []*dom.Element { return content.FindAll(dom.ByClass("point")) }
	tooltips := func() []*dom.Element { return content.FindAll(dom.ByClass("tooltip")) }

	It("lists All followed by the sorted genres", func() {
		opts := ex.Options()
		Expect(opts).To(Equal([]scene.Option{
			{Value: "All", Label: "All Genres"},
			{Value: "Action", Label: "Action"},
			{Value: "Sports", Label: "Sports"},
		}))
		sel := content.Find(dom.ByID("genre-filter"))
		Expect(sel).NotTo(BeNil())
		Expect(sel.FindAll(dom.ByName("option"))).To(HaveLen(3))
	})

	It("plots every record on mount", func() {
		Expect(ex.Selected()).To(Equal(scene.AllGenres))
		Expect(points()).To(HaveLen(10))
		Expect(tooltips()).To(HaveLen(1))
	})

	It("filters by genre and back without duplicating the tooltip", func() {
		Expect(ex.Select(ctx, "Action")).To(Succeed())
		Expect(points()).To(HaveLen(5))
		Expect(tooltips()).To(HaveLen(1))

		Expect(ex.Select(ctx, scene.AllGenres)).To(Succeed())
		Expect(points()).To(HaveLen(10))
		Expect(tooltips()).To(HaveLen(1))
	})

	It("rescales to the filtered data", func() {
		Expect(ex.Select(ctx, "Action")).To(Succeed())
		_, y := ex.Scales()
		_, hi := y.Domain()
		Expect(hi).To(Equal(5.0))

		Expect(ex.Select(ctx, "Sports")).To(Succeed())
		_, y = ex.Scales()
		_, hi = y.Domain()
		Expect(hi).To(Equal(10.0))
	})

	It("marks the selected option", func() {
		Expect(ex.Select(ctx, "Sports")).To(Succeed())
		var selected []string
		for _, opt := range content.FindAll(dom.ByName("option")) {
			if _, ok := opt.Get("selected"); ok {
				v, _ := opt.Get("value")
				selected = append(selected, v)
			}
		}
		Expect(selected).To(Equal([]string{"Sports"}))
	})

	It("carries record data on every point", func() {
		Expect(ex.Select(ctx, "Action")).To(Succeed())
		p := points()[0]
		name, _ := p.Get("data-name")
		year, _ := p.Get("data-year")
		r, _ := p.Get("r")
		Expect(name).To(Equal("Action 0"))
		Expect(year).To(Equal("2000"))
		Expect(r).To(Equal("4"))
	})

	It("shows, moves and hides the tooltip", func() {
		Expect(ex.Hover(0, 100, 200)).To(BeTrue())
		tip := ex.Tooltip()
		Expect(ex.TooltipVisible()).To(BeTrue())
		Expect(tip.TextContent()).To(Equal("Action 0Year: 2000Sales: 1M"))
		left, _ := tip.StyleValue("left")
		top, _ := tip.StyleValue("top")
		Expect(left).To(Equal("110px"))
		Expect(top).To(Equal("172px"))

		ex.Move(50, 50)
		left, _ = tip.StyleValue("left")
		Expect(left).To(Equal("60px"))

		ex.Leave()
		Expect(ex.TooltipVisible()).To(BeFalse())
		Expect(ex.Hover(99, 0, 0)).To(BeFalse())
	})

	It("hides the tooltip when the filter changes", func() {
		ex.Hover(1, 0, 0)
		Expect(ex.Select(ctx, "Action")).To(Succeed())
		Expect(ex.TooltipVisible()).To(BeFalse())
	})

	It("rejects genres it does not offer", func() {
		Expect(ex.Select(ctx, "Puzzle")).To(MatchError(scene.ErrUnknownOption))
		Expect(ex.Selected()).To(Equal(scene.AllGenres))
	})

	It("requires a mount before selecting", func() {
		fresh := scene.NewExplorer(tenGames(), scene.DefaultSize)
		Expect(fresh.Select(ctx, "Action")).To(MatchError(scene.ErrNotMounted))
	})

	It("resets to All when mounted again", func() {
		Expect(ex.Select(ctx, "Action")).To(Succeed())
		again := dom.New("div")
		ex.Mount(again)
		Expect(ex.Selected()).To(Equal(scene.AllGenres))
		Expect(again.FindAll(dom.ByClass("point"))).To(HaveLen(10))
		Expect(again.FindAll(dom.ByClass("tooltip"))).To(HaveLen(1))
	})

	It("mounts without data", func() {
		empty := scene.NewExplorer(nil, scene.DefaultSize)
		root := dom.New("div")
		empty.Mount(root)
		Expect(root.FindAll(dom.ByClass("point"))).To(BeEmpty())
		Expect(empty.Options()).To(HaveLen(1))
	})

	It("mounts records with very large years", func() {
		huge := scene.NewExplorer([]dataset.SalesRecord{
			sale("Far", "Action", "100000000000000000", "1"),
			sale("Farther", "Action", "100000000000000128", "2"),
		}, scene.DefaultSize)
		root := dom.New("div")

		done := make(chan struct{})
		go func() {
			defer close(done)
			huge.Mount(root)
		}()
		Eventually(done).WithTimeout(5 * time.Second).Should(BeClosed())
		Expect(root.FindAll(dom.ByClass("point"))).To(HaveLen(2))
	})
})
