// Package cleaner provides interfaces and implementations for cleaning model output.
// Cleaners turn a raw completion into text suitable for display or for feeding
// back into the next turn of a conversation.
package cleaner

// Cleaner transforms model output into a cleaner form.
type Cleaner interface {
	// Clean transforms the input text.
	// The output depends on the implementation (markup only, reasoning removed, etc.).
	Clean(text string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
