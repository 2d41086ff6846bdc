/*
Package event provides a type-safe pub/sub event system for the cmdshelf
server.

The event system decouples the command library from its consumers: the
library publishes notifications after every mutation, and the SSE endpoint,
terminal sinks, and clipboard writers react without direct dependencies.

# Architecture

The package is built on top of watermill's gochannel for infrastructure while
maintaining direct-call semantics to preserve type information. It provides
both synchronous and asynchronous event publishing patterns.

# Event Types

  - server.connected: sent to each new SSE client
  - library.updated: the forest changed; panel clients should re-render.
    Published strictly after the durable copy was written, so a consumer
    always observes a forest whose persisted state matches memory.
  - terminal.command: a command should be injected into the host terminal
  - clipboard.copied: command text was handed to a clipboard writer
  - toast.shown: a non-fatal warning or notice for the user

# Basic Usage

Publishing events:

	// Asynchronous publishing (non-blocking)
	event.Publish(event.Event{
		Type: event.LibraryUpdated,
		Data: event.LibraryUpdatedData{Reason: "add", NodeID: id},
	})

	// Synchronous publishing (blocking until all subscribers complete)
	event.PublishSync(event.Event{
		Type: event.ToastShown,
		Data: event.ToastShownData{Level: event.ToastWarning, Message: msg},
	})

Subscribing:

	unsubscribe := event.Subscribe(event.LibraryUpdated, func(e event.Event) {
		data := e.Data.(event.LibraryUpdatedData)
		log.Info("library updated", "reason", data.Reason)
	})
	defer unsubscribe()

# Subscriber Safety Guidelines

When using PublishSync, subscribers are called synchronously in the
publisher's goroutine. To avoid blocking or deadlocks, subscribers MUST:

  - Complete quickly (avoid long-running operations)
  - Use non-blocking channel sends (select with default case)
  - Never call Publish/PublishSync from within a subscriber
  - Never acquire locks that the publisher might hold

# Custom Event Bus

For testing or isolation, you can create custom bus instances:

	bus := event.NewBus()
	defer bus.Close()

# Testing

Reset global bus state in test cleanup with event.Reset().
*/
package event
