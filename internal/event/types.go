package event

// LibraryUpdatedData is the data for library.updated events. It is the
// refresh signal for panel clients: by the time it is published the durable
// copy already matches the in-memory forest.
type LibraryUpdatedData struct {
	Reason string `json:"reason"`           // add|update|delete|move|import|reload
	NodeID string `json:"nodeID,omitempty"` // node the operation touched, if any
}

// TerminalCommandData is the data for terminal.command events. Editor hosts
// subscribe to inject the text into their own integrated terminal.
type TerminalCommandData struct {
	Terminal string `json:"terminal"` // terminal display name
	Command  string `json:"command"`  // raw command text
	NodeID   string `json:"nodeID,omitempty"`
}

// ClipboardCopiedData is the data for clipboard.copied events.
type ClipboardCopiedData struct {
	Text   string `json:"text"`
	NodeID string `json:"nodeID,omitempty"`
}

// ToastShownData is the data for toast.shown events: non-fatal warnings and
// notices surfaced to the user.
type ToastShownData struct {
	Level   string `json:"level"` // info|warning|error
	Message string `json:"message"`
}

// Toast levels.
const (
	ToastInfo    = "info"
	ToastWarning = "warning"
	ToastError   = "error"
)
