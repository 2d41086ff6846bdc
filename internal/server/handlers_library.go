package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmdshelf/cmdshelf/internal/event"
	"github.com/cmdshelf/cmdshelf/internal/library"
	"github.com/cmdshelf/cmdshelf/internal/panel"
	"github.com/cmdshelf/cmdshelf/internal/tree"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// addCommandRequest is the body of POST /library/commands.
type addCommandRequest struct {
	Label       string `json:"label"`
	Command     string `json:"command"`
	Description string `json:"description"`
	ParentID    string `json:"parentID"`
}

// addGroupRequest is the body of POST /library/groups.
type addGroupRequest struct {
	Label    string `json:"label"`
	ParentID string `json:"parentID"`
}

// updateNodeRequest is the body of PATCH /library/nodes/{nodeID}. Absent
// fields are left untouched.
type updateNodeRequest struct {
	Label       *string `json:"label"`
	Command     *string `json:"command"`
	Description *string `json:"description"`
}

// moveNodeRequest is the body of POST /library/nodes/{nodeID}/move. An empty
// target moves the node to the end of the root sequence.
type moveNodeRequest struct {
	TargetID string `json:"targetID"`
	Position string `json:"position"`
}

// getLibrary handles GET /library.
func (s *Server) getLibrary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.CommandData{Commands: s.library.Data()})
}

// getPanel handles GET /library/panel.
func (s *Server) getPanel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": panel.BuildItems(s.library.Data()),
	})
}

// searchLibrary handles GET /library/search?q=pattern.
func (s *Server) searchLibrary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "q query parameter required")
		return
	}

	matches := s.library.Search(q)
	resp := map[string]any{
		"matches": matches,
	}
	if len(matches) == 0 {
		if suggestion, ok := s.library.Suggest(q); ok {
			resp["suggestion"] = suggestion
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// getNode handles GET /library/nodes/{nodeID}.
func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	node, ok := s.library.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// addCommand handles POST /library/commands.
func (s *Server) addCommand(w http.ResponseWriter, r *http.Request) {
	var req addCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "command is required")
		return
	}

	item, err := s.library.AddCommand(r.Context(), req.Label, req.Command, req.Description, req.ParentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// addGroup handles POST /library/groups.
func (s *Server) addGroup(w http.ResponseWriter, r *http.Request) {
	var req addGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "label is required")
		return
	}

	group, err := s.library.AddGroup(r.Context(), req.Label, req.ParentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// updateNode handles PATCH /library/nodes/{nodeID}.
func (s *Server) updateNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")

	var req updateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	patch := tree.Patch{Label: req.Label, Command: req.Command, Description: req.Description}
	if err := s.library.Update(r.Context(), id, patch); err != nil {
		writeServiceError(w, err)
		return
	}

	node, _ := s.library.Find(id)
	writeJSON(w, http.StatusOK, node)
}

// deleteNode handles DELETE /library/nodes/{nodeID}.
func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if err := s.library.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

// moveNode handles POST /library/nodes/{nodeID}/move.
func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")

	var req moveNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	var err error
	switch {
	case req.TargetID == "":
		err = s.library.Drop(r.Context(), id, "")
	case req.Position == "":
		err = s.library.Drop(r.Context(), id, req.TargetID)
	default:
		pos := tree.Position(req.Position)
		if pos != tree.PositionBefore && pos != tree.PositionAfter && pos != tree.PositionInside {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "position must be before, after or inside")
			return
		}
		err = s.library.Move(r.Context(), id, req.TargetID, pos)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

// moveNodeUp handles POST /library/nodes/{nodeID}/move-up.
func (s *Server) moveNodeUp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if err := s.library.MoveUp(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

// moveNodeDown handles POST /library/nodes/{nodeID}/move-down.
func (s *Server) moveNodeDown(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if err := s.library.MoveDown(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

// runNode handles POST /library/nodes/{nodeID}/run.
func (s *Server) runNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if err := s.library.Run(r.Context(), id); err != nil {
		toastOnMismatch(err, "only commands can be run")
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

// copyNode handles POST /library/nodes/{nodeID}/copy.
func (s *Server) copyNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if err := s.library.Copy(r.Context(), id); err != nil {
		toastOnMismatch(err, "only commands can be copied")
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

// toastOnMismatch surfaces type-mismatch misuse as a warning toast in
// addition to the HTTP error, so panel clients show feedback even when the
// caller ignores the response.
func toastOnMismatch(err error, message string) {
	if errors.Is(err, library.ErrNotCommand) || errors.Is(err, library.ErrNotGroup) {
		event.Publish(event.Event{
			Type: event.ToastShown,
			Data: event.ToastShownData{Level: event.ToastWarning, Message: message},
		})
	}
}

// importLibrary handles POST /library/import: wholesale replacement of the
// library from the supplied document.
func (s *Server) importLibrary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "failed to read body")
		return
	}

	if err := s.library.Import(r.Context(), body); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

// exportLibrary handles GET /library/export.
func (s *Server) exportLibrary(w http.ResponseWriter, r *http.Request) {
	doc, err := s.library.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// openAPISpec handles GET /doc
func (s *Server) openAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       "cmdshelf Server API",
			"version":     "1.0.0",
			"description": "REST API for the cmdshelf command library",
		},
		"servers": []map[string]any{
			{"url": "http://localhost:8156", "description": "Local server"},
		},
	}
	writeJSON(w, http.StatusOK, spec)
}
