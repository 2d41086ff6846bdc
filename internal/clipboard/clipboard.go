// Package clipboard provides the clipboard write sink for copy operations.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/cmdshelf/cmdshelf/internal/event"
)

// Writer accepts command text for a clipboard.
type Writer interface {
	Write(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// NewSystem creates a system clipboard writer.
func NewSystem() *System {
	return &System{}
}

func (s *System) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Bus publishes clipboard.copied events so an editor host can write to its
// own clipboard.
type Bus struct{}

// NewBus creates a bus-backed clipboard writer.
func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Write(text string) error {
	event.Publish(event.Event{
		Type: event.ClipboardCopied,
		Data: event.ClipboardCopiedData{Text: text},
	})
	return nil
}
