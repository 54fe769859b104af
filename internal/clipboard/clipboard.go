// Package clipboard formats records for copy-out, shipping labels mostly.
package clipboard

import "strings"

// Sink receives formatted text. The HTTP surface returns it to the caller;
// tests capture it in memory.
type Sink interface {
	Copy(text string) error
}

// FormatClientInfo renders a client as shipping-label text: name on the
// first line, address lines after it. Blank parts are skipped.
func FormatClientInfo(name, address string) string {
	lines := make([]string, 0, 2)
	if name = strings.TrimSpace(name); name != "" {
		lines = append(lines, name)
	}
	if address = strings.TrimSpace(address); address != "" {
		lines = append(lines, address)
	}
	return strings.Join(lines, "\n")
}

// Buffer is an in-memory Sink.
type Buffer struct {
	text string
}

func (b *Buffer) Copy(text string) error {
	b.text = text
	return nil
}

func (b *Buffer) Text() string {
	return b.text
}
