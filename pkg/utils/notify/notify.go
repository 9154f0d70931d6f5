package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"

	"github.com/slipway-dev/slipway/pkg/utils/timer"
)

// MessageType defines the type of notification message.
type MessageType int

// Message type constants. Each type determines the styling (color and symbol)
// of the printed line.
const (
	// ErrorType represents an error message (red, ✗).
	ErrorType MessageType = iota
	// WarningType represents a warning message (yellow, ⚠).
	WarningType
	// ActivityType represents a progress message (default color, ►).
	ActivityType
	// GenerateType represents a resource generation message (default color, ✚).
	GenerateType
	// SuccessType represents a success message (green, ✔).
	SuccessType
	// InfoType represents an informational message (blue, ℹ).
	InfoType
	// TitleType represents a stage title (bold, prefixed with an emoji).
	TitleType
)

// Message represents a notification to be displayed to the user.
type Message struct {
	// Type determines the message styling.
	Type MessageType
	// Content is the message text, optionally with format specifiers.
	Content string
	// Args are format arguments for Content.
	Args []any
	// Timer is optional. When set on a SuccessType message, a timing block is
	// printed after the message line.
	Timer timer.Timer
	// Emoji overrides the default title icon for TitleType messages.
	Emoji string
	// Writer is the output destination. Defaults to os.Stdout when nil.
	Writer io.Writer
}

// style holds the symbol and color for a message type.
type style struct {
	symbol string
	color  *fcolor.Color
}

//nolint:gochecknoglobals // static lookup table for message styling
var styles = map[MessageType]style{
	ErrorType:    {symbol: "✗ ", color: fcolor.New(fcolor.FgRed)},
	WarningType:  {symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)},
	ActivityType: {symbol: "► ", color: fcolor.New(fcolor.Reset)},
	GenerateType: {symbol: "✚ ", color: fcolor.New(fcolor.Reset)},
	SuccessType:  {symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)},
	InfoType:     {symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)},
	TitleType:    {symbol: "", color: fcolor.New(fcolor.Reset, fcolor.Bold)},
}

// WriteMessage writes a formatted message based on the message configuration.
//
// For simple cases prefer the convenience functions Errorf, Warningf,
// Activityf, Generatef, Successf, Infof, and Titlef. Blank lines between
// stages are handled by wrapping the writer with NewStageSeparatingWriter.
func WriteMessage(msg Message) {
	if msg.Writer == nil {
		msg.Writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	sty, ok := styles[msg.Type]
	if !ok {
		sty = style{color: fcolor.New(fcolor.Reset)}
	}

	content = indentContinuationLines(content, sty.symbol)

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "ℹ️"
		}

		_, err := sty.color.Fprintf(msg.Writer, "%s %s\n", emoji, content)
		reportWriteError(err)

		return
	}

	_, err := sty.color.Fprintf(msg.Writer, "%s%s\n", sty.symbol, content)
	reportWriteError(err)

	// Timing is only reported on success lines.
	if msg.Type == SuccessType && msg.Timer != nil {
		total, stage := msg.Timer.GetTiming()

		_, err = sty.color.Fprintf(msg.Writer, "⏲ current: %s\n", stage.String())
		reportWriteError(err)
		_, err = sty.color.Fprintf(msg.Writer, "  total:  %s\n", total.String())
		reportWriteError(err)
	}
}

// Errorf writes an error message to the writer.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning message to the writer.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes a progress message to the writer.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Generatef writes a resource generation message to the writer.
func Generatef(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: GenerateType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success message to the writer.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithTimerf writes a success message followed by timing information.
func SuccessWithTimerf(writer io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: writer})
}

// Infof writes an informational message to the writer.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a stage title with an emoji to the writer.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{
		Type:    TitleType,
		Content: fmt.Sprintf(format, args...),
		Emoji:   emoji,
		Writer:  writer,
	})
}

// indentContinuationLines aligns the continuation lines of multi-line content
// under the first line's symbol.
func indentContinuationLines(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}

// reportWriteError logs print failures to stderr instead of returning them,
// so a broken pipe on the notification stream cannot fail an operation.
func reportWriteError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}
