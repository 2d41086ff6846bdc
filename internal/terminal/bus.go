package terminal

import (
	"context"

	"github.com/cmdshelf/cmdshelf/internal/event"
)

// Bus publishes terminal.command events so an editor host injects the text
// into its own integrated terminal.
type Bus struct {
	name string
}

// NewBus creates a bus-backed terminal sink.
func NewBus(name string) *Bus {
	if name == "" {
		name = "cmdshelf"
	}
	return &Bus{name: name}
}

func (b *Bus) Name() string { return b.name }

func (b *Bus) Send(ctx context.Context, text string) error {
	event.Publish(event.Event{
		Type: event.TerminalCommand,
		Data: event.TerminalCommandData{Terminal: b.name, Command: text},
	})
	return nil
}
