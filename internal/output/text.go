package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter writes items as plain text, one after another. Strings,
// byte slices and fmt.Stringer values are written verbatim; anything else
// uses its %v form. Each item ends with exactly one newline.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes a single item.
func (w *TextWriter) Write(data any) error {
	var s string
	switch v := data.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprintf("%v", v)
	}

	if _, err := w.w.WriteString(strings.TrimRight(s, "\n")); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple items.
func (w *TextWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
