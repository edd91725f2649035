package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Exported 12 nodes (41ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports graph builds, renders and namespace queries to a logger.
// It implements both observability.GraphHooks and observability.BackendHooks.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnBuildStart(context.Context) {
	h.logger.Debug("building graph")
}

func (h logHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("graph build failed", "err", err, "took", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("graph built", "nodes", nodes, "edges", edges, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnRenderStart(_ context.Context, engine, format string) {
	h.logger.Debug("rendering", "engine", engine, "format", format)
}

func (h logHooks) OnRenderComplete(_ context.Context, engine, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "engine", engine, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "engine", engine, "format", format, "bytes", size, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnQuery(_ context.Context, query string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("namespace query failed", "query", query, "err", err)
		return
	}
	h.logger.Debug("namespace query", "query", query, "took", d.Round(time.Millisecond))
}
