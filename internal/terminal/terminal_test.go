package terminal

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdshelf/cmdshelf/internal/event"
)

func TestBusSink_PublishesTerminalCommand(t *testing.T) {
	event.Reset()
	t.Cleanup(event.Reset)

	received := make(chan event.Event, 1)
	unsub := event.Subscribe(event.TerminalCommand, func(e event.Event) {
		select {
		case received <- e:
		default:
		}
	})
	defer unsub()

	sink := NewBus("Panel Terminal")
	require.NoError(t, sink.Send(context.Background(), "docker-compose up -d"))

	select {
	case e := <-received:
		data := e.Data.(event.TerminalCommandData)
		assert.Equal(t, "Panel Terminal", data.Terminal)
		assert.Equal(t, "docker-compose up -d", data.Command)
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for terminal.command event")
	}
}

func TestBusSink_DefaultName(t *testing.T) {
	sink := NewBus("")
	assert.Equal(t, "cmdshelf", sink.Name())
}

func TestLocalSink_ReusesProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("local shell test is unix-only")
	}

	sink := NewLocal("test", "/bin/sh")
	defer sink.Close()

	ctx := context.Background()
	require.NoError(t, sink.Send(ctx, "true"))

	sink.mu.Lock()
	first := sink.cmd
	sink.mu.Unlock()
	require.NotNil(t, first)

	require.NoError(t, sink.Send(ctx, "true"))

	sink.mu.Lock()
	second := sink.cmd
	sink.mu.Unlock()
	assert.Same(t, first, second, "process should be reused while alive")
}

func TestLocalSink_RespawnsAfterExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("local shell test is unix-only")
	}

	sink := NewLocal("test", "/bin/sh")
	defer sink.Close()

	ctx := context.Background()
	require.NoError(t, sink.Send(ctx, "exit 0"))

	// Wait for the waiter goroutine to observe the exit
	deadline := time.Now().Add(2 * time.Second)
	for {
		sink.mu.Lock()
		gone := sink.cmd == nil
		sink.mu.Unlock()
		if gone || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.NoError(t, sink.Send(ctx, "true"))
	sink.mu.Lock()
	respawned := sink.cmd
	sink.mu.Unlock()
	assert.NotNil(t, respawned)
}

func TestRunOnce(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("run test is unix-only")
	}

	result, err := RunOnce(context.Background(), "", "echo hello", 0)
	require.NoError(t, err)
	assert.Contains(t, result.Output, "hello")
	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, result.TimedOut)
}

func TestRunOnce_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("run test is unix-only")
	}

	result, err := RunOnce(context.Background(), "", "exit 3", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRunOnce_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("run test is unix-only")
	}

	result, err := RunOnce(context.Background(), "", "sleep 5", 100*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.TimedOut)
	assert.Contains(t, result.Output, "timed out")
}

func TestDetectShell_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, DetectShell())
}
