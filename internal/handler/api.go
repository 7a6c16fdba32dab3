package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"orbitview/internal/scene"
	"orbitview/internal/service"
)

// SceneHandler exposes per-session scene interaction
type SceneHandler struct {
	svc *service.SceneService
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(svc *service.SceneService) *SceneHandler {
	return &SceneHandler{svc: svc}
}

// OpenResponse is returned when a session is created
type OpenResponse struct {
	SessionID string      `json:"session_id"`
	Frame     scene.Frame `json:"frame"`
}

// ListSessions returns the open sessions
func (h *SceneHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Sessions(), http.StatusOK)
}

// OpenSession creates a session. The body is an optional viewport.
func (h *SceneHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	vp, ok := decodeViewport(w, r)
	if !ok {
		return
	}

	id, frame, err := h.svc.Open(r.Context(), vp)
	if err != nil {
		writeServiceError(w, "Failed to open session", err)
		return
	}

	writeJSON(w, OpenResponse{SessionID: id, Frame: frame}, http.StatusCreated)
}

// CloseSession discards a session
func (h *SceneHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Close(r.Context(), r.PathValue("sid")); err != nil {
		writeServiceError(w, "Failed to close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectTheme handles a click on a theme
func (h *SceneHandler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	tr, err := h.svc.SelectTheme(r.Context(), r.PathValue("sid"), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "Failed to select theme", err)
		return
	}
	writeJSON(w, tr, http.StatusOK)
}

// Miss handles a click on empty space
func (h *SceneHandler) Miss(w http.ResponseWriter, r *http.Request) {
	tr, err := h.svc.ClickEmptySpace(r.Context(), r.PathValue("sid"))
	if err != nil {
		writeServiceError(w, "Failed to clear selection", err)
		return
	}
	writeJSON(w, tr, http.StatusOK)
}

// Hover marks a node as hovered
func (h *SceneHandler) Hover(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Hover(r.Context(), r.PathValue("sid"), r.PathValue("id")); err != nil {
		writeServiceError(w, "Failed to hover", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unhover clears the hovered node
func (h *SceneHandler) Unhover(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unhover(r.Context(), r.PathValue("sid")); err != nil {
		writeServiceError(w, "Failed to unhover", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DrillDown opens the mobile card list
func (h *SceneHandler) DrillDown(w http.ResponseWriter, r *http.Request) {
	h.frameAfter(w, r, "Failed to drill down", h.svc.DrillDown)
}

// DrillUp closes the mobile card list
func (h *SceneHandler) DrillUp(w http.ResponseWriter, r *http.Request) {
	h.frameAfter(w, r, "Failed to drill up", h.svc.DrillUp)
}

// SelectSubgraph picks a card from the open list
func (h *SceneHandler) SelectSubgraph(w http.ResponseWriter, r *http.Request) {
	node, err := h.svc.SelectSubgraph(r.Context(), r.PathValue("sid"), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "Failed to select subgraph", err)
		return
	}
	writeJSON(w, node, http.StatusOK)
}

// SetViewport applies device class, aspect and zoom
func (h *SceneHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	vp, ok := decodeViewport(w, r)
	if !ok {
		return
	}
	sid := r.PathValue("sid")
	if err := h.svc.SetViewport(r.Context(), sid, vp); err != nil {
		writeServiceError(w, "Failed to set viewport", err)
		return
	}
	h.writeFrame(w, r, sid)
}

// GetFrame returns the session's current frame
func (h *SceneHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	h.writeFrame(w, r, r.PathValue("sid"))
}

func (h *SceneHandler) frameAfter(w http.ResponseWriter, r *http.Request, msg string, action func(ctx context.Context, sid string) error) {
	sid := r.PathValue("sid")
	if err := action(r.Context(), sid); err != nil {
		writeServiceError(w, msg, err)
		return
	}
	h.writeFrame(w, r, sid)
}

func (h *SceneHandler) writeFrame(w http.ResponseWriter, r *http.Request, sid string) {
	frame, err := h.svc.Frame(r.Context(), sid)
	if err != nil {
		writeServiceError(w, "Failed to get frame", err)
		return
	}
	writeJSON(w, frame, http.StatusOK)
}

// decodeViewport reads an optional viewport body. An empty body is an
// empty viewport.
func decodeViewport(w http.ResponseWriter, r *http.Request) (service.Viewport, bool) {
	var vp service.Viewport
	if r.Body == nil {
		return vp, true
	}
	err := json.NewDecoder(r.Body).Decode(&vp)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return vp, false
	}
	return vp, true
}
