// Package server provides the HTTP API for the cmdshelf command library.
//
// The server exposes the command forest to editor panels and other clients:
//
//   - /library: read the forest, the render-model projection, and search
//   - /library/commands, /library/groups: create nodes
//   - /library/nodes/{id}: update, delete, move, run and copy nodes
//   - /library/import, /library/export: wholesale document transfer
//   - /event: real-time refresh signals and dispatches via SSE
//
// # Event Stream
//
// Clients subscribe to /event and receive a server.connected hello followed
// by every bus event in a {type, properties} envelope:
//
//   - library.updated: the forest changed, re-fetch and re-render
//   - terminal.command: a run dispatched for an editor-hosted terminal
//   - clipboard.copied: a copy dispatched for an editor-hosted clipboard
//   - toast.shown: non-fatal warnings surfaced to the user
//
// Heartbeat comments every 30 seconds keep intermediaries from dropping
// idle connections.
//
// # Error Envelope
//
// Errors are JSON objects of the form {"error": {"code", "message"}} with
// codes INVALID_REQUEST, NOT_FOUND, TYPE_MISMATCH, BAD_IMPORT and
// INTERNAL_ERROR.
//
// # Usage Example
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 8156
//
//	srv := server.New(cfg, svc)
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
package server
