// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger and adapts streamed process output into
// log records.
package logging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "rpdk-python"

// ErrInvalidLevel is returned for level names that are not debug, info, warn or error.
var ErrInvalidLevel = errors.New("invalid log level")

// New returns a slog.Logger writing human-readable records to w at the given level.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           lvl,
	})
	return slog.New(handler), nil
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(level string) (log.Level, error) {
	if strings.TrimSpace(level) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return 0, fmt.Errorf("%w %q (valid: debug, info, warn, error)", ErrInvalidLevel, level)
	}
	return lvl, nil
}

// LineWriter is an io.Writer that emits one log record per line written to it.
// A trailing partial line is emitted by Close.
type LineWriter struct {
	mu     sync.Mutex
	logger *slog.Logger
	level  slog.Level
	msg    string
	attrs  []any
	buf    bytes.Buffer
}

// NewLineWriter returns a writer logging each line at level as msg, with the line
// in the "line" attribute alongside attrs.
func NewLineWriter(logger *slog.Logger, level slog.Level, msg string, attrs ...any) *LineWriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LineWriter{logger: logger, level: level, msg: msg, attrs: attrs}
}

// Write buffers p and logs every complete line.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line: put it back for the next write.
			w.buf.Reset()
			w.buf.Write(line)
			break
		}
		w.emit(line)
	}
	return len(p), nil
}

// Close logs any buffered partial line.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.Bytes())
		w.buf.Reset()
	}
	return nil
}

func (w *LineWriter) emit(line []byte) {
	text := strings.TrimRight(string(line), "\r\n")
	if text == "" {
		return
	}
	attrs := append(append([]any{}, w.attrs...), "line", text)
	w.logger.Log(context.Background(), w.level, w.msg, attrs...)
}
