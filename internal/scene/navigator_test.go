package scene_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scene"
)

type recordingObserver struct {
	rendered []int
	errs     []error
	filters  []string
}

func (o *recordingObserver) SceneRendered(index int, _ string, _ time.Duration, err error) {
	o.rendered = append(o.rendered, index)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) FilterChanged(value string) {
	o.filters = append(o.filters, value)
}

// markerScenes draws one group per scene tagged with the scene number.
func markerScenes(n int) []scene.Scene {
	scenes := make([]scene.Scene, n)
	for i := range scenes {
		class := fmt.Sprintf("scene-%d", i)
		scenes[i] = scene.Scene{
			Title: fmt.Sprintf("Scene %d", i),
			Render: func(_ context.Context, content *dom.Element) error {
				g := content.Append("svg").Append("g").Set("class", class)
				g.Append("rect").Set("class", class)
				return nil
			},
		}
	}
	return scenes
}

func sceneClasses(content *dom.Element) map[string]int {
	seen := make(map[string]int)
	content.Walk(func(e *dom.Element) bool {
		if c, ok := e.Get("class"); ok {
			seen[c]++
		}
		return true
	})
	return seen
}

var _ = Describe("Navigator", func() {
	var (
		ctx context.Context
		nav *scene.Navigator
		obs *recordingObserver
	)

	BeforeEach(func() {
		ctx = context.Background()
		obs = &recordingObserver{}
		var err error
		nav, err = scene.NewNavigator(markerScenes(4), dom.NewHost(), scene.WithObserver(obs))
		Expect(err).NotTo(HaveOccurred())
		Expect(nav.RenderCurrent(ctx)).To(Succeed())
	})

	It("rejects an empty scene list", func() {
		_, err := scene.NewNavigator(nil, dom.NewHost())
		Expect(err).To(MatchError(scene.ErrNoScenes))
	})

	It("starts on the first scene", func() {
		Expect(nav.Index()).To(Equal(0))
		Expect(nav.Host().Title()).To(Equal("Scene 0"))
		Expect(obs.rendered).To(Equal([]int{0}))
	})

	It("keeps the index within bounds for any sequence of moves", func() {
		moves := "rrrarrraaaaaaraarrrrrrraaar"
		for _, m := range moves {
			var err error
			if m == 'a' {
				_, err = nav.Advance(ctx)
			} else {
				_, err = nav.Retreat(ctx)
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(nav.Index()).To(BeNumerically(">=", 0))
			Expect(nav.Index()).To(BeNumerically("<=", 3))
		}
	})

	It("does nothing when advancing past the last scene", func() {
		for i := 0; i < 3; i++ {
			moved, err := nav.Advance(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(moved).To(BeTrue())
		}
		renders := len(obs.rendered)

		moved, err := nav.Advance(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(BeFalse())
		Expect(nav.Index()).To(Equal(3))
		Expect(obs.rendered).To(HaveLen(renders))
	})

	It("does nothing when retreating before the first scene", func() {
		moved, err := nav.Retreat(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(BeFalse())
		Expect(nav.Index()).To(Equal(0))
		Expect(obs.rendered).To(HaveLen(1))
	})

	It("leaves only the current scene's elements after every transition", func() {
		steps := []func(context.Context) (bool, error){
			nav.Advance, nav.Advance, nav.Retreat, nav.Advance, nav.Advance, nav.Retreat,
		}
		for _, step := range steps {
			_, err := step(ctx)
			Expect(err).NotTo(HaveOccurred())
			want := fmt.Sprintf("scene-%d", nav.Index())
			Expect(sceneClasses(nav.Host().Content())).To(Equal(map[string]int{want: 2}))
			Expect(nav.Host().Title()).To(Equal(fmt.Sprintf("Scene %d", nav.Index())))
		}
	})

	It("clamps Goto and skips redundant renders", func() {
		moved, err := nav.Goto(ctx, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(BeTrue())
		Expect(nav.Index()).To(Equal(3))

		moved, err = nav.Goto(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(BeFalse())

		_, err = nav.Goto(ctx, -5)
		Expect(err).NotTo(HaveOccurred())
		Expect(nav.Index()).To(Equal(0))
	})

	It("renders the same markup twice in a row", func() {
		first := nav.Snapshot().Markup
		Expect(nav.RenderCurrent(ctx)).To(Succeed())
		Expect(nav.Snapshot().Markup).To(Equal(first))
	})

	It("reports a missing filter", func() {
		Expect(nav.Select(ctx, "Action")).To(MatchError(scene.ErrNoFilter))
	})

	Context("when a renderer fails", func() {
		var boom = errors.New("boom")

		BeforeEach(func() {
			scenes := markerScenes(2)
			scenes[1].Render = func(_ context.Context, content *dom.Element) error {
				content.Append("p").Set("class", "partial")
				return boom
			}
			var err error
			nav, err = scene.NewNavigator(scenes, dom.NewHost(), scene.WithObserver(obs))
			Expect(err).NotTo(HaveOccurred())
			Expect(nav.RenderCurrent(ctx)).To(Succeed())
		})

		It("replaces the content with an error panel", func() {
			moved, err := nav.Advance(ctx)
			Expect(moved).To(BeTrue())
			Expect(err).To(MatchError(boom))

			var re *scene.RenderError
			Expect(errors.As(err, &re)).To(BeTrue())
			Expect(re.Index).To(Equal(1))
			Expect(re.Title).To(Equal("Scene 1"))

			content := nav.Host().Content()
			Expect(content.Find(dom.ByClass("partial"))).To(BeNil())
			panel := content.Find(dom.ByClass("scene-error"))
			Expect(panel).NotTo(BeNil())
			role, _ := panel.Get("role")
			Expect(role).To(Equal("alert"))
			Expect(panel.TextContent()).To(ContainSubstring("boom"))

			Expect(obs.errs[len(obs.errs)-1]).To(MatchError(boom))
			Expect(nav.Snapshot().Error).To(ContainSubstring("boom"))
		})

		It("recovers on the next successful render", func() {
			_, _ = nav.Advance(ctx)
			_, err := nav.Retreat(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(nav.Host().Content().Find(dom.ByClass("scene-error"))).To(BeNil())
			Expect(nav.Snapshot().Error).To(BeEmpty())
		})
	})
})
