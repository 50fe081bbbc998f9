package progress

import (
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Reporter receives progress for a long phase (refresh, extraction).
// Increment may be called from concurrent workers.
type Reporter interface {
	Start(message string, total int)
	Increment()
	Done()
}

// New picks a reporter for the current environment: a live progress bar on
// an interactive terminal, periodic log lines with an ETA otherwise.
func New(logger *logrus.Logger) Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return newTerminalReporter()
	}
	return &logReporter{logger: logger}
}

// Nop discards all progress. Used by tests and quiet mode.
func Nop() Reporter { return nopReporter{} }

type nopReporter struct{}

func (nopReporter) Start(string, int) {}
func (nopReporter) Increment()        {}
func (nopReporter) Done()             {}

type terminalReporter struct {
	writer  progress.Writer
	tracker *progress.Tracker
}

func newTerminalReporter() *terminalReporter {
	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(250 * time.Millisecond)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Speed = true
	return &terminalReporter{writer: pw}
}

func (r *terminalReporter) Start(message string, total int) {
	r.tracker = &progress.Tracker{
		Message: message,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	r.writer.AppendTracker(r.tracker)
	go r.writer.Render()
}

func (r *terminalReporter) Increment() {
	if r.tracker != nil {
		r.tracker.Increment(1)
	}
}

func (r *terminalReporter) Done() {
	if r.tracker != nil {
		r.tracker.MarkAsDone()
	}
	r.writer.Stop()
}

// logReporter emits a log line with a running ETA every logEvery items,
// matching non-interactive environments like cron.
type logReporter struct {
	mu      sync.Mutex
	logger  *logrus.Logger
	message string
	total   int
	done    int
	started time.Time
}

const logEvery = 100

func (r *logReporter) Start(message string, total int) {
	r.message = message
	r.total = total
	r.done = 0
	r.started = time.Now()
	if r.logger != nil {
		r.logger.WithField("total", total).Info(message)
	}
}

func (r *logReporter) Increment() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
	if r.logger == nil || r.done%logEvery != 0 || r.done == 0 {
		return
	}
	elapsed := time.Since(r.started)
	remaining := time.Duration(0)
	if r.done > 0 {
		perItem := elapsed / time.Duration(r.done)
		remaining = perItem * time.Duration(r.total-r.done)
	}
	r.logger.WithFields(logrus.Fields{
		"done":      r.done,
		"total":     r.total,
		"remaining": humanize.RelTime(time.Now(), time.Now().Add(remaining), "", ""),
	}).Info(r.message)
}

func (r *logReporter) Done() {
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"total":   r.total,
			"elapsed": time.Since(r.started).Round(time.Second).String(),
		}).Info(r.message + " complete")
	}
}
