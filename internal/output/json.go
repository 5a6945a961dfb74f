package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// newEncoder returns an encoder that leaves markup readable (no < escapes).
func newEncoder(w io.Writer, indent string) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc
}

// JSONWriter buffers items and writes them as one JSON document on Flush:
// a single item is written as itself, several as an array.
type JSONWriter struct {
	buffer
	w      *bufio.Writer
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	jw := &JSONWriter{w: bufio.NewWriter(w)}
	if pretty {
		jw.indent = indent
	}
	return jw
}

// Flush writes the buffered items and resets the buffer.
func (w *JSONWriter) Flush() error {
	if len(w.items) == 0 {
		return w.w.Flush()
	}
	if err := newEncoder(w.w, w.indent).Encode(w.document()); err != nil {
		return err
	}
	w.items = nil
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes one compact JSON object per line as items arrive.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: newEncoder(bw, "")}
}

// Write writes a single item as a JSON line.
func (w *JSONLWriter) Write(data any) error {
	if err := w.enc.Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple items as JSON lines.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
