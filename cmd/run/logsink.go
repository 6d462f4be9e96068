package main

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

// callLogSink is a bounded ring buffer of log lines, used as a second
// zapcore.WriteSyncer so the interactive TUI can tail the same trace
// output that also goes to stderr.
type callLogSink struct {
	mu    sync.Mutex
	lines []string
	cap   int
}

func newCallLogSink(capacity int) *callLogSink {
	return &callLogSink{cap: capacity}
}

func (s *callLogSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, string(p))
	if len(s.lines) > s.cap {
		s.lines = s.lines[len(s.lines)-s.cap:]
	}
	return len(p), nil
}

func (s *callLogSink) Sync() error { return nil }

// Lines returns a snapshot of the buffered log lines, oldest first.
func (s *callLogSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

var _ zapcore.WriteSyncer = (*callLogSink)(nil)
