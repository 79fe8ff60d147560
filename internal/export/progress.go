package export

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Reporter receives progress while scenes are written.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a progress bar for interactive runs and a log
// reporter when the CI environment variable is set.
func NewReporter(logger *zap.Logger) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LogReporter{logger: logger}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar on stderr.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Exporting scenes"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LogReporter writes one log line per scene.
type LogReporter struct {
	logger *zap.Logger
	total  int
}

func (r *LogReporter) Start(total int) {
	r.total = total
	r.log().Info("exporting scenes", zap.Int("total", total))
}

func (r *LogReporter) Update(current int, message string) {
	r.log().Info(message, zap.Int("current", current), zap.Int("total", r.total))
}

func (r *LogReporter) Finish() {
	r.log().Info("export complete")
}

func (r *LogReporter) log() *zap.Logger {
	if r.logger == nil {
		return zap.NewNop()
	}
	return r.logger
}

type nopReporter struct{}

func (nopReporter) Start(int)          {}
func (nopReporter) Update(int, string) {}
func (nopReporter) Finish()            {}
