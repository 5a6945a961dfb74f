package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter buffers items and writes them as one YAML document on Flush.
// Multi-line strings such as generated markup are emitted as literal blocks.
type YAMLWriter struct {
	buffer
	w *bufio.Writer
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: bufio.NewWriter(w)}
}

// Flush writes the buffered items and resets the buffer.
func (w *YAMLWriter) Flush() error {
	if len(w.items) == 0 {
		return w.w.Flush()
	}

	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(2)
	if err := enc.Encode(w.document()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	w.items = nil
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
