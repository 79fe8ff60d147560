package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/metrics"
	"github.com/san-kum/vgsales/internal/scene"
)

const (
	panelWidth = 34
	minCols    = 20
	minRows    = 8
)

var plainNarrative = strings.NewReplacer("**", "", "*", "", "`", "")

// App is the terminal frontend: one Braille rendering of the current scene
// next to its narrative, legend and filter.
type App struct {
	ctx      context.Context
	nav      *scene.Navigator
	explorer *scene.Explorer
	stats    []metrics.RenderMetric

	theme    int
	width    int
	height   int
	showHelp bool
	status   string
	point    int
}

type Option func(*App)

// WithExplorer enables point inspection on the explorer scene.
func WithExplorer(e *scene.Explorer) Option {
	return func(a *App) { a.explorer = e }
}

// WithTheme selects the initial theme by name.
func WithTheme(name string) Option {
	return func(a *App) { a.theme = themeIndex(name) }
}

// WithStats shows the given render metrics in the side panel.
func WithStats(ms ...metrics.RenderMetric) Option {
	return func(a *App) { a.stats = append(a.stats, ms...) }
}

func NewApp(ctx context.Context, nav *scene.Navigator, opts ...Option) App {
	a := App{
		ctx:    ctx,
		nav:    nav,
		width:  120,
		height: 36,
		point:  -1,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// RunInteractive starts the terminal frontend and blocks until it quits.
func RunInteractive(ctx context.Context, nav *scene.Navigator, opts ...Option) error {
	p := tea.NewProgram(NewApp(ctx, nav, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd { return nil }

// Theme returns the active theme.
func (a App) Theme() Theme { return Themes[a.theme] }

// Status returns the last status message.
func (a App) Status() string { return a.status }

// Inspected returns the index of the inspected explorer point, or -1.
func (a App) Inspected() int { return a.point }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if a.showHelp && key != "q" && key != "ctrl+c" {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "right", "l", "n", " ":
		a.navigate(a.nav.Advance(a.ctx))
	case "left", "h", "p":
		a.navigate(a.nav.Retreat(a.ctx))
	case "home", "g":
		a.navigate(a.nav.Goto(a.ctx, 0))
	case "end", "G":
		a.navigate(a.nav.Goto(a.ctx, a.nav.Len()-1))
	case "f":
		a.cycleFilter()
	case "t":
		a.theme = (a.theme + 1) % len(Themes)
		a.status = "theme: " + Themes[a.theme].Name
	case "]":
		a.inspect(1)
	case "[":
		a.inspect(-1)
	case "?":
		a.showHelp = true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			a.navigate(a.nav.Goto(a.ctx, int(key[0]-'1')))
		}
	}
	return a, nil
}

func (a *App) navigate(moved bool, err error) {
	if err != nil {
		a.status = err.Error()
		a.point = -1
		return
	}
	if moved {
		a.status = ""
		a.point = -1
	}
}

func (a *App) cycleFilter() {
	snap := a.nav.Snapshot()
	if snap.Filter == nil || len(snap.Filter.Options) == 0 {
		a.status = "this scene has no filter"
		return
	}
	next := 0
	for i, opt := range snap.Filter.Options {
		if opt.Value == snap.Filter.Selected {
			next = (i + 1) % len(snap.Filter.Options)
			break
		}
	}
	opt := snap.Filter.Options[next]
	if err := a.nav.Select(a.ctx, opt.Value); err != nil {
		a.status = err.Error()
		return
	}
	a.point = -1
	a.status = "filter: " + opt.Label
}

func (a *App) inspect(step int) {
	if a.explorer == nil || a.nav.Snapshot().Filter == nil {
		a.status = "nothing to inspect here"
		return
	}
	margin := scene.ExplorerMargin
	a.nav.View(func(_ int, _ *dom.Host) {
		points := a.explorer.Points()
		if len(points) == 0 {
			a.point = -1
			a.status = "no points for this filter"
			return
		}
		switch {
		case a.point < 0 && step < 0:
			a.point = len(points) - 1
		case a.point < 0:
			a.point = 0
		default:
			a.point = (a.point + step + len(points)) % len(points)
		}
		p := points[a.point]
		a.explorer.Hover(a.point, p.X+margin.Left, p.Y+margin.Top)
		a.status = fmt.Sprintf("point %d/%d", a.point+1, len(points))
	})
}

type frame struct {
	title   string
	canvas  string
	legend  []legendEntry
	tooltip []string
	failure string
}

type legendEntry struct {
	label, color string
}

func (a App) capture() frame {
	t := a.Theme()
	cols := max(a.width-panelWidth-6, minCols)
	rows := max(a.height-7, minRows)
	palette := Palette{Axis: string(t.Muted), Text: string(t.Text)}

	var f frame
	a.nav.View(func(_ int, host *dom.Host) {
		content := host.Content()
		f.title = host.Title()
		r := Rasterize(content, cols, rows, palette)
		if a.explorer != nil && a.point >= 0 && a.explorer.TooltipVisible() {
			points := a.explorer.Points()
			if a.point < len(points) {
				p := points[a.point]
				m := scene.ExplorerMargin
				x, y := r.Project(p.X+m.Left, p.Y+m.Top)
				r.Canvas.Disc(x, y, 2, string(t.Accent))
			}
			f.tooltip = tooltipLines(a.explorer.Tooltip())
		}
		f.canvas = r.Canvas.Render()
		f.legend = legendOf(content)
		if e := content.Find(dom.ByClass("scene-error")); e != nil {
			f.failure = e.TextContent()
		}
	})
	return f
}

func legendOf(content *dom.Element) []legendEntry {
	var out []legendEntry
	for _, g := range content.FindAll(dom.ByClass("legend")) {
		swatches := g.FindAll(dom.ByClass("legend-swatch"))
		labels := g.FindAll(dom.ByClass("legend-label"))
		for i := range min(len(swatches), len(labels)) {
			color, _ := swatches[i].Get("fill")
			out = append(out, legendEntry{label: labels[i].TextContent(), color: color})
		}
	}
	return out
}

// tooltipLines splits the tooltip at its line breaks.
func tooltipLines(tip *dom.Element) []string {
	if tip == nil {
		return nil
	}
	var (
		lines []string
		cur   strings.Builder
	)
	for _, c := range tip.Children {
		if c.Name == "br" {
			lines = append(lines, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(c.TextContent())
	}
	return append(lines, cur.String())
}

func (a App) View() string {
	t := a.Theme()
	if a.showHelp {
		return a.helpView(t)
	}

	snap := a.nav.Snapshot()
	f := a.capture()

	progress := float64(snap.Index+1) / float64(max(snap.Count, 1))
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		GradientText("VGSALES", t.Primary, t.Secondary),
		"  ",
		t.heading().Render(f.title),
		"  ",
		ProgressBar(progress, 12, t),
		t.hint().Render(fmt.Sprintf(" %d/%d", snap.Index+1, snap.Count)),
	)

	body := f.canvas
	if f.failure != "" {
		body = t.failure().Render(f.failure)
	}
	chart := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Render(strings.TrimRight(body, "\n"))

	row := lipgloss.JoinHorizontal(lipgloss.Top, chart, " ", a.sidePanel(t, snap, f))

	footer := t.hint().Render("←/→ scene  1-4 jump  f filter  [ ] inspect  t theme  ? help  q quit")
	if a.status != "" {
		footer = t.value().Render(a.status) + "  " + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, row, footer)
}

func (a App) sidePanel(t Theme, snap scene.Snapshot, f frame) string {
	inner := panelWidth - 4
	var b strings.Builder

	b.WriteString(t.text().Width(inner).Render(plainNarrative.Replace(snap.Narrative)))
	b.WriteString("\n")

	if len(f.legend) > 0 {
		b.WriteString(Separator(inner, t) + "\n")
		for _, e := range f.legend {
			sw := lipgloss.NewStyle().Foreground(lipgloss.Color(e.color)).Render("■")
			b.WriteString(sw + " " + t.text().Render(e.label) + "\n")
		}
	}

	if snap.Filter != nil {
		b.WriteString(Separator(inner, t) + "\n")
		label := snap.Filter.Selected
		for _, opt := range snap.Filter.Options {
			if opt.Value == snap.Filter.Selected {
				label = opt.Label
			}
		}
		b.WriteString(t.hint().Render("Genre ") + t.value().Render(label) + "\n")
	}

	if len(f.tooltip) > 0 {
		b.WriteString(Separator(inner, t) + "\n")
		b.WriteString(t.heading().Render(f.tooltip[0]) + "\n")
		for _, line := range f.tooltip[1:] {
			b.WriteString(t.text().Render(line) + "\n")
		}
	}

	if len(a.stats) > 0 {
		b.WriteString(Separator(inner, t) + "\n")
		parts := make([]string, 0, len(a.stats))
		for _, m := range a.stats {
			parts = append(parts, t.hint().Render(m.Name()+" ")+t.value().Render(fmt.Sprintf("%.2f", m.Value())))
		}
		b.WriteString(strings.Join(parts, "  "))
	}

	return t.panel(panelWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func (a App) helpView(t Theme) string {
	keys := [][2]string{
		{"→ l n space", "next scene"},
		{"← h p", "previous scene"},
		{"1-9", "jump to scene"},
		{"g / G", "first / last scene"},
		{"f", "cycle genre filter"},
		{"[ ]", "inspect explorer points"},
		{"t", "cycle theme"},
		{"q", "quit"},
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(t.value().Width(14).Render(k[0]) + t.text().Render(k[1]) + "\n")
	}
	b.WriteString("\n" + t.hint().Render("press any key to close"))
	box := BoxWithTitle("Keys", b.String(), 40, t)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}
