package types

// Config is the application configuration.
type Config struct {
	Schema string `json:"$schema,omitempty"`

	// Data overrides the default data directory.
	Data string `json:"data,omitempty"`

	Log       *LogConfig       `json:"log,omitempty"`
	Server    *ServerConfig    `json:"server,omitempty"`
	Terminal  *TerminalConfig  `json:"terminal,omitempty"`
	Clipboard *ClipboardConfig `json:"clipboard,omitempty"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `json:"level,omitempty"` // DEBUG|INFO|WARN|ERROR
	Pretty bool   `json:"pretty,omitempty"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port     int    `json:"port,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}

// Terminal dispatch modes.
const (
	TerminalModeLocal = "local" // persistent local shell process
	TerminalModeBus   = "bus"   // publish terminal.command events for the editor host
)

// TerminalConfig controls how run operations reach a terminal.
type TerminalConfig struct {
	Name  string `json:"name,omitempty"`  // terminal display name
	Shell string `json:"shell,omitempty"` // shell binary override for local mode
	Mode  string `json:"mode,omitempty"`  // local|bus
}

// Clipboard dispatch modes.
const (
	ClipboardModeSystem = "system" // system clipboard
	ClipboardModeBus    = "bus"    // publish clipboard.copied events for the editor host
)

// ClipboardConfig controls how copy operations reach a clipboard.
type ClipboardConfig struct {
	Mode string `json:"mode,omitempty"` // system|bus
}
