package notify

import (
	"fmt"
	"io"
	"sync"
	"unicode"
	"unicode/utf8"
)

// StageSeparatingWriter wraps an io.Writer and inserts a blank line before
// each stage title once any previous output has been written. A stage title
// is a line starting with a pictographic emoji (as produced by Titlef), not
// one of the symbol-prefixed message lines.
//
// Usage:
//
//	writer := notify.NewStageSeparatingWriter(cmd.OutOrStdout())
//	cmd.SetOut(writer)
type StageSeparatingWriter struct {
	underlying io.Writer
	hasWritten bool
	mu         sync.Mutex
}

// NewStageSeparatingWriter creates a StageSeparatingWriter wrapping the given writer.
func NewStageSeparatingWriter(underlying io.Writer) *StageSeparatingWriter {
	return &StageSeparatingWriter{underlying: underlying}
}

// Write implements io.Writer, inserting a stage separator before title lines.
func (w *StageSeparatingWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) == 0 {
		return 0, nil
	}

	if w.hasWritten && startsWithTitleEmoji(data) {
		_, err := w.underlying.Write([]byte{'\n'})
		if err != nil {
			return 0, fmt.Errorf("write stage separator: %w", err)
		}
	}

	written, err := w.underlying.Write(data)
	if written > 0 {
		w.hasWritten = true
	}

	if err != nil {
		return written, fmt.Errorf("write data: %w", err)
	}

	return written, nil
}

// Reset clears the written state so the next title gets no leading separator.
func (w *StageSeparatingWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.hasWritten = false
}

// HasWritten reports whether any content has been written.
func (w *StageSeparatingWriter) HasWritten() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.hasWritten
}

// startsWithTitleEmoji reports whether data begins with a pictographic emoji.
// The symbols used for message lines (►, ✔, ✗, ⚠, ℹ, ✚, ⏲) are excluded so
// only Titlef output triggers stage separation.
func startsWithTitleEmoji(data []byte) bool {
	firstRune, _ := utf8.DecodeRune(data)
	if firstRune == utf8.RuneError {
		return false
	}

	switch firstRune {
	case '►', '✔', '✗', '⚠', 'ℹ', '✚', '⏲':
		return false
	}

	return unicode.Is(unicode.So, firstRune)
}
