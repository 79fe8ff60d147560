package scene_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scene"
)

const (
	salesCSV = `Name,Year,Genre,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales
Wii Sports,2006,Sports,41.49,29.02,3.77,8.46,82.74
Super Mario Bros.,1985,Platform,29.08,3.58,6.81,0.77,40.24
Mario Kart Wii,2008,Racing,15.85,12.88,3.79,3.31,35.82
Pokemon Red/Pokemon Blue,1996,Role-Playing,11.27,8.89,10.22,1,31.37
`
	genreYearCSV = `Genre,Year,Global_Sales
Sports,2005,40.1
Sports,2006,136.2
Racing,2005,30.3
Racing,2006,24.5
`
	genreRegionCSV = `Genre,NA_Sales,EU_Sales,JP_Sales,Other_Sales
Sports,683.35,376.85,135.37,134.97
Racing,359.42,238.39,56.69,77.27
`
)

var _ = Describe("Story", func() {
	var (
		ctx    context.Context
		loader *memLoader
		nav    *scene.Navigator
		obs    *recordingObserver
	)

	BeforeEach(func() {
		ctx = context.Background()
		loader = newMemLoader()
		loader.files[scene.DefaultSources.Sales] = salesCSV
		loader.files[scene.DefaultSources.GenreYear] = genreYearCSV
		loader.files[scene.DefaultSources.GenreRegion] = genreRegionCSV
		obs = &recordingObserver{}
	})

	start := func() {
		story, err := scene.LoadStory(ctx, loader)
		Expect(err).NotTo(HaveOccurred())
		nav, err = scene.NewNavigator(story.Scenes(), dom.NewHost(), scene.WithObserver(obs))
		Expect(err).NotTo(HaveOccurred())
		Expect(nav.RenderCurrent(ctx)).To(Succeed())
	}

	It("fails to start without the primary dataset", func() {
		delete(loader.files, scene.DefaultSources.Sales)
		_, err := scene.LoadStory(ctx, loader)
		Expect(errors.Is(err, dataset.ErrNotFound)).To(BeTrue())
	})

	It("walks through the four scenes in order", func() {
		start()
		titles := []string{nav.Host().Title()}
		marks := []string{"bar", "trend", "segment", "point"}
		Expect(nav.Host().Content().FindAll(dom.ByClass(marks[0]))).To(HaveLen(4))
		for i := 1; i < 4; i++ {
			moved, err := nav.Advance(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(moved).To(BeTrue())
			titles = append(titles, nav.Host().Title())
			Expect(nav.Host().Content().FindAll(dom.ByClass(marks[i]))).NotTo(BeEmpty())
			Expect(nav.Host().Content().FindAll(dom.ByClass(marks[i-1]))).To(BeEmpty())
		}
		Expect(titles).To(Equal([]string{
			scene.TitleTopSales, scene.TitleTrends, scene.TitleRegions, scene.TitleExplorer,
		}))
	})

	It("loads the primary dataset once and secondary ones on every entry", func() {
		start()
		_, _ = nav.Advance(ctx)
		_, _ = nav.Retreat(ctx)
		_, _ = nav.Advance(ctx)
		Expect(loader.calls[scene.DefaultSources.Sales]).To(Equal(1))
		Expect(loader.calls[scene.DefaultSources.GenreYear]).To(Equal(2))
	})

	It("shows an error panel when a secondary load fails", func() {
		delete(loader.files, scene.DefaultSources.GenreRegion)
		start()
		_, err := nav.Goto(ctx, 2)
		Expect(errors.Is(err, dataset.ErrNotFound)).To(BeTrue())
		Expect(nav.Host().Title()).To(Equal(scene.TitleRegions))
		Expect(nav.Host().Content().Find(dom.ByClass("scene-error"))).NotTo(BeNil())

		moved, err := nav.Advance(ctx)
		Expect(moved).To(BeTrue())
		Expect(err).NotTo(HaveOccurred())
	})

	It("forwards filter changes on the last scene", func() {
		start()
		_, err := nav.Goto(ctx, 3)
		Expect(err).NotTo(HaveOccurred())

		snap := nav.Snapshot()
		Expect(snap.Filter).NotTo(BeNil())
		Expect(snap.Filter.Selected).To(Equal(scene.AllGenres))
		Expect(snap.Filter.Options).To(HaveLen(5))

		Expect(nav.Select(ctx, "Racing")).To(Succeed())
		Expect(nav.Host().Content().FindAll(dom.ByClass("point"))).To(HaveLen(1))
		Expect(nav.Snapshot().Filter.Selected).To(Equal("Racing"))
		Expect(obs.filters).To(Equal([]string{"Racing"}))
	})

	It("honours the ranking length", func() {
		story, err := scene.LoadStory(ctx, loader, scene.WithTopN(2))
		Expect(err).NotTo(HaveOccurred())
		nav, err = scene.NewNavigator(story.Scenes(), dom.NewHost())
		Expect(err).NotTo(HaveOccurred())
		Expect(nav.RenderCurrent(ctx)).To(Succeed())
		Expect(nav.Host().Content().FindAll(dom.ByClass("bar"))).To(HaveLen(2))
	})
})
