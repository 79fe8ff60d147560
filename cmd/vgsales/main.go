package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/vgsales/internal/config"
	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/export"
	"github.com/san-kum/vgsales/internal/logging"
	"github.com/san-kum/vgsales/internal/metrics"
	"github.com/san-kum/vgsales/internal/scene"
	"github.com/san-kum/vgsales/internal/server"
	"github.com/san-kum/vgsales/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	dataDir    string
	layout     string
	verbose    bool
	// serve
	addr string
	// tui
	theme   string
	logFile string
	// export
	outDir  string
	braille bool
	// top / trends
	topN   int
	genres []string
	height int
)

// main registers the commands and runs the terminal story when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "vgsales",
		Short:         "video game sales, told in four scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&layout, "layout", "", "layout preset (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the story over http",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "browse the story in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to file")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "write every scene as a standalone svg",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides config)")
	exportCmd.Flags().BoolVar(&braille, "braille", false, "also write the terminal rendering")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes",
		RunE:  listScenes,
	}

	topCmd := &cobra.Command{
		Use:   "top",
		Short: "print the best-selling games",
		RunE:  printTop,
	}
	topCmd.Flags().IntVarP(&topN, "number", "n", 0, "number of games (defaults to top_n)")

	trendsCmd := &cobra.Command{
		Use:   "trends",
		Short: "plot yearly sales per genre",
		RunE:  plotTrends,
	}
	trendsCmd.Flags().StringSliceVar(&genres, "genre", nil, "genres to plot (default all)")
	trendsCmd.Flags().IntVar(&height, "height", 15, "plot height")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "vgsales.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "list layout presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDESCRIPTION")
			for _, name := range config.ListLayouts() {
				l := config.GetLayout(name)
				fmt.Fprintf(w, "%s\t%.0fx%.0f\t%s\n", l.Name, l.Width, l.Height, l.Description)
			}
			return w.Flush()
		},
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list terminal color themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range viz.ThemeNames() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(serveCmd, tuiCmd, exportCmd, scenesCmd, topCmd, trendsCmd, configCmd, layoutsCmd, themesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("layout") {
		cfg.Layout = layout
		cfg.Width, cfg.Height = 0, 0
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// runtime is everything a frontend needs: the loaded story, a navigator on
// its first scene and the observers attached to both.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	loader   *dataset.Loader
	manager  *metrics.Manager
	recorder *metrics.Recorder
	story    *scene.Story
	nav      *scene.Navigator
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*runtime, error) {
	rt := &runtime{
		cfg:     cfg,
		logger:  logger,
		manager: metrics.NewManager(),
	}
	rt.recorder = metrics.NewRecorder(
		[]metrics.RenderMetric{metrics.NewRenderTime(), metrics.NewRenderHealth()},
		rt.manager,
	)
	rt.loader = dataset.NewLoader(cfg.DataDir,
		dataset.WithLogger(logger),
		dataset.WithObserver(rt.manager),
	)

	width, height := cfg.Dimensions()
	story, err := scene.LoadStory(ctx, rt.loader,
		scene.WithSources(scene.Sources{
			Sales:       cfg.Sources.Sales,
			GenreYear:   cfg.Sources.GenreYear,
			GenreRegion: cfg.Sources.GenreRegion,
		}),
		scene.WithSize(scene.Size{Width: width, Height: height}),
		scene.WithTopN(cfg.TopN),
	)
	if err != nil {
		return nil, err
	}
	rt.story = story
	logger.Info("dataset loaded",
		zap.String("resource", cfg.Sources.Sales),
		zap.Int("records", len(story.Records())))

	nav, err := scene.NewNavigator(story.Scenes(), nil,
		scene.WithLogger(logger),
		scene.WithObserver(rt.recorder),
	)
	if err != nil {
		return nil, err
	}
	rt.nav = nav
	if err := nav.RenderCurrent(ctx); err != nil {
		// The navigator already shows an error panel for the scene.
		logger.Warn("first scene failed to render", zap.Error(err))
	}
	return rt, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = addr
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:           cfg.Addr,
		AllowedOrigins: cfg.AllowedOrigins,
	}, rt.nav, server.WithLogger(logger), server.WithMetrics(rt.manager))
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = theme
	}

	// Log lines would corrupt the alternate screen, so only a file is used.
	logger := zap.NewNop()
	if logFile != "" {
		if logger, err = logging.New(cfg.LogLevel, logFile); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	ctx := cmd.Context()
	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return viz.RunInteractive(ctx, rt.nav,
		viz.WithExplorer(rt.story.Explorer()),
		viz.WithTheme(cfg.Theme),
		viz.WithStats(rt.recorder.Metrics()...),
	)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.ExportDir = outDir
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}

	opts := []export.Option{
		export.WithLogger(logger),
		export.WithReporter(export.NewReporter(logger)),
	}
	if braille {
		t := viz.GetTheme(cfg.Theme)
		opts = append(opts, export.WithBraille(export.Braille{
			Cols:    120,
			Rows:    40,
			Scale:   4,
			Palette: viz.Palette{Axis: string(t.Muted), Text: string(t.Text)},
		}))
	}

	paths, err := export.New(rt.nav, cfg.ExportDir, opts...).WriteAll(ctx)
	for _, p := range paths {
		fmt.Println(p)
	}
	return err
}

func listScenes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w, h := cfg.Dimensions()
	story := scene.NewStory(nil, nil, scene.WithSize(scene.Size{Width: w, Height: h}))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tFILTER")
	for i, s := range story.Scenes() {
		filter := "-"
		if s.Filter != nil {
			filter = "genre"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, s.Title, filter)
	}
	return tw.Flush()
}

func printTop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n := cfg.TopN
	if cmd.Flags().Changed("number") {
		n = topN
	}

	loader := dataset.NewLoader(cfg.DataDir)
	t, err := loader.Load(cmd.Context(), cfg.Sources.Sales)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tGENRE\tYEAR\tGLOBAL (M)")
	for i, r := range scene.TopSales(dataset.SalesRecords(t), n) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Name, r.Genre, r.Year, r.GlobalSales)
	}
	return w.Flush()
}

func plotTrends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	loader := dataset.NewLoader(cfg.DataDir)
	t, err := loader.Load(cmd.Context(), cfg.Sources.GenreYear)
	if err != nil {
		return err
	}
	points := dataset.GenreYearPoints(t)

	series, order, first, last, err := trendSeries(points, genres)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no trend data for genres %v", genres)
	}

	data := make([][]float64, 0, len(order))
	for _, g := range order {
		data = append(data, series[g])
	}
	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("global sales (M) per year, %d-%d", first, last)),
	)
	fmt.Println(graph)
	for i, g := range order {
		fmt.Printf("  %d. %s\n", i+1, g)
	}
	return nil
}

// maxTrendYears bounds the year axis of the trends plot.
const maxTrendYears = 1000

// trendSeries lays each genre's sales out on a shared year axis. Missing
// years count as zero. Genres keep first-seen order; an empty filter keeps
// every genre. Non-finite years are skipped.
func trendSeries(points []dataset.GenreYearPoint, filter []string) (map[string][]float64, []string, int, int, error) {
	first, last := 0.0, 0.0
	var order []string
	for _, p := range points {
		if len(filter) > 0 && !slices.Contains(filter, p.Genre) {
			continue
		}
		y, ok := trendYear(p)
		if !ok {
			continue
		}
		if len(order) == 0 || y < first {
			first = y
		}
		if len(order) == 0 || y > last {
			last = y
		}
		if !slices.Contains(order, p.Genre) {
			order = append(order, p.Genre)
		}
	}
	if len(order) == 0 {
		return map[string][]float64{}, nil, 0, 0, nil
	}
	if first < math.MinInt32 || last > math.MaxInt32 || last-first >= maxTrendYears {
		return nil, nil, 0, 0, fmt.Errorf("year span %v-%v exceeds %d years", first, last, maxTrendYears)
	}

	lo, hi := int(first), int(last)
	series := make(map[string][]float64, len(order))
	for _, g := range order {
		series[g] = make([]float64, hi-lo+1)
	}
	for _, p := range points {
		s, ok := series[p.Genre]
		if !ok {
			continue
		}
		y, ok := trendYear(p)
		if !ok {
			continue
		}
		if v := p.GlobalSalesValue(); !math.IsNaN(v) {
			s[int(y)-lo] += v
		}
	}
	return series, order, lo, hi, nil
}

func trendYear(p dataset.GenreYearPoint) (float64, bool) {
	y := math.Floor(p.YearValue())
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}
