package hydrate

import (
	"context"
	"log/slog"
	"sync"
)

// Sink receives diagnostics as they are reported. Report is called
// synchronously from the reconciling goroutine.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

// Report implements Sink.
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// NopSink discards diagnostics.
type NopSink struct{}

// Report implements Sink.
func (NopSink) Report(Diagnostic) {}

// LogSink writes diagnostics to a structured logger: repairs at Warn,
// escalations and notices at Error.
type LogSink struct {
	Logger *slog.Logger

	// Excerpt includes the rendered tree excerpt as an attribute.
	Excerpt bool
}

// NewLogSink returns a LogSink writing to logger, or to slog.Default()
// when logger is nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{Logger: logger, Excerpt: true}
}

// Report implements Sink.
func (s *LogSink) Report(d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelWarn
	if d.Severity == SeverityError {
		level = slog.LevelError
	}
	attrs := []slog.Attr{
		slog.String("code", d.Code),
		slog.String("kind", d.Kind.String()),
		slog.String("scope", d.Scope.String()),
		slog.String("server_path", d.ServerPath.String()),
		slog.String("client_path", d.ClientPath.String()),
	}
	if s.Excerpt && len(d.Excerpt) > 0 {
		attrs = append(attrs, slog.Any("excerpt", d.Excerpt))
	}
	logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}

// Recorder keeps every reported diagnostic in memory.
type Recorder struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// Report implements Sink.
func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, d)
	r.mu.Unlock()
}

// Diagnostics returns a copy of the recorded diagnostics.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Codes returns the codes of the recorded diagnostics in order.
func (r *Recorder) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.diagnostics))
	for i, d := range r.diagnostics {
		out[i] = d.Code
	}
	return out
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.diagnostics = nil
	r.mu.Unlock()
}
