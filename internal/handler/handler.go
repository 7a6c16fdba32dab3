package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"orbitview/internal/domain"
	"orbitview/internal/service"
)

// maxImportBytes bounds import request bodies
const maxImportBytes = 8 << 20

// NodeHandler handles node tree API requests
type NodeHandler struct {
	svc *service.NodeService
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(svc *service.NodeService) *NodeHandler {
	return &NodeHandler{svc: svc}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListNodes returns all nodes
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.svc.ListNodes(r.Context())
	if err != nil {
		slog.Error("failed to list nodes", "error", err)
		writeError(w, "Failed to list nodes", err.Error(), http.StatusInternalServerError)
		return
	}
	if nodes == nil {
		nodes = []domain.Node{}
	}

	writeJSON(w, nodes, http.StatusOK)
}

// GetNode returns a single node
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, "Invalid node ID", "Node ID is required", http.StatusBadRequest)
		return
	}

	node, err := h.svc.GetNode(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to get node", err)
		return
	}

	writeJSON(w, node, http.StatusOK)
}

// PutNode creates or replaces a node
func (h *NodeHandler) PutNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var node domain.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if node.ID == "" {
		node.ID = id
	}
	if node.ID != id {
		writeError(w, "Invalid node ID", "Body ID does not match path", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpsertNode(r.Context(), &node); err != nil {
		writeServiceError(w, "Failed to save node", err)
		return
	}

	writeJSON(w, node, http.StatusOK)
}

// DeleteNode removes a node and its subtree
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.DeleteNode(r.Context(), id); err != nil {
		writeServiceError(w, "Failed to delete node", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import replaces the node tree. The format comes from the path.
func (h *NodeHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	result, err := h.svc.Import(r.Context(), format, body)
	if err != nil {
		writeServiceError(w, "Failed to import nodes", err)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

// Export downloads the node tree
func (h *NodeHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")

	var contentType, filename string
	switch format {
	case "json":
		contentType, filename = "application/json", "nodes.json"
	case "yaml":
		contentType, filename = "application/x-yaml", "nodes.yaml"
	case "outline":
		contentType, filename = "application/x-yaml", "outline.yaml"
	default:
		writeError(w, "Unsupported format", format, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := h.svc.Export(r.Context(), format, w); err != nil {
		slog.Error("failed to export nodes", "format", format, "error", err)
		// Can't write error response as we already set headers
		return
	}
}

// Helper functions

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// writeServiceError maps sentinel errors to status codes
func writeServiceError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(strings.ToLower(msg), "error", err)
	}
	writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidNode):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAllowed):
		return http.StatusConflict
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case strings.Contains(err.Error(), "unsupported"), strings.Contains(err.Error(), "failed to parse"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
