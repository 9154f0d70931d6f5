package kindprovisioner

import (
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/kind/pkg/log"
)

// streamLogger adapts an io.Writer to kind's log.Logger so cluster progress
// streams into slipway's output in real time. Only info-level messages (V(0))
// are emitted; verbose and debug levels are discarded.
type streamLogger struct {
	out io.Writer
}

func newStreamLogger(out io.Writer) *streamLogger {
	if out == nil {
		out = io.Discard
	}

	return &streamLogger{out: out}
}

func (l *streamLogger) Warn(message string) {
	l.write(message)
}

func (l *streamLogger) Warnf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Error(message string) {
	l.write(message)
}

func (l *streamLogger) Errorf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Info(message string) {
	l.write(message)
}

func (l *streamLogger) Infof(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Enabled() bool {
	return true
}

// V gates verbosity: V(0) keeps streaming, V(1) and higher is discarded.
func (l *streamLogger) V(level log.Level) log.InfoLogger {
	if level > 0 {
		return discardInfoLogger{}
	}

	return l
}

// write appends a newline unless the message manages its own line endings;
// kind's spinner frames carry carriage returns and must pass through intact.
func (l *streamLogger) write(message string) {
	if message == "" {
		_, _ = io.WriteString(l.out, "\n")

		return
	}

	if strings.ContainsRune(message, '\r') || strings.HasSuffix(message, "\n") {
		_, _ = io.WriteString(l.out, message)

		return
	}

	_, _ = io.WriteString(l.out, message+"\n")
}

type discardInfoLogger struct{}

func (discardInfoLogger) Info(string)          {}
func (discardInfoLogger) Infof(string, ...any) {}
func (discardInfoLogger) Enabled() bool        { return false }
