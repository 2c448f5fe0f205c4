// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

type (
	// RecordingHandler is a slog.Handler keeping every record for later assertions.
	RecordingHandler struct {
		mu      sync.Mutex
		records []slog.Record
	}

	// LogEntry is a flattened record.
	LogEntry struct {
		Level   slog.Level
		Message string
		Attrs   map[string]string
	}
)

// NewRecordingLogger returns a logger backed by a fresh RecordingHandler.
func NewRecordingLogger() (*slog.Logger, *RecordingHandler) {
	h := &RecordingHandler{}
	return slog.New(h), h
}

// Enabled reports true for every level.
func (h *RecordingHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle stores r.
func (h *RecordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

// WithAttrs returns h; attributes added through With are not recorded.
func (h *RecordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

// WithGroup returns h.
func (h *RecordingHandler) WithGroup(string) slog.Handler { return h }

// Entries returns the recorded records in order.
func (h *RecordingHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]LogEntry, 0, len(h.records))
	for _, r := range h.records {
		e := LogEntry{Level: r.Level, Message: r.Message, Attrs: map[string]string{}}
		r.Attrs(func(a slog.Attr) bool {
			e.Attrs[a.Key] = a.Value.String()
			return true
		})
		entries = append(entries, e)
	}
	return entries
}

// Find returns the entries at level whose message contains substr.
func (h *RecordingHandler) Find(level slog.Level, substr string) []LogEntry {
	var found []LogEntry
	for _, e := range h.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			found = append(found, e)
		}
	}
	return found
}
