package handler

import "net/http"

// Routes registers the API on a new mux. events serves the SSE stream and
// may be nil.
func Routes(nodes *NodeHandler, scenes *SceneHandler, events http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Node tree
	mux.HandleFunc("GET /api/nodes", nodes.ListNodes)
	mux.HandleFunc("GET /api/nodes/{id}", nodes.GetNode)
	mux.HandleFunc("PUT /api/nodes/{id}", nodes.PutNode)
	mux.HandleFunc("DELETE /api/nodes/{id}", nodes.DeleteNode)
	mux.HandleFunc("POST /api/import/{format}", nodes.Import)
	mux.HandleFunc("GET /api/export/{format}", nodes.Export)

	// Sessions
	mux.HandleFunc("GET /api/sessions", scenes.ListSessions)
	mux.HandleFunc("POST /api/sessions", scenes.OpenSession)
	mux.HandleFunc("DELETE /api/sessions/{sid}", scenes.CloseSession)
	mux.HandleFunc("POST /api/sessions/{sid}/select/{id}", scenes.SelectTheme)
	mux.HandleFunc("POST /api/sessions/{sid}/miss", scenes.Miss)
	mux.HandleFunc("POST /api/sessions/{sid}/hover/{id}", scenes.Hover)
	mux.HandleFunc("DELETE /api/sessions/{sid}/hover", scenes.Unhover)
	mux.HandleFunc("POST /api/sessions/{sid}/drill", scenes.DrillDown)
	mux.HandleFunc("DELETE /api/sessions/{sid}/drill", scenes.DrillUp)
	mux.HandleFunc("POST /api/sessions/{sid}/subgraph/{id}", scenes.SelectSubgraph)
	mux.HandleFunc("PUT /api/sessions/{sid}/viewport", scenes.SetViewport)
	mux.HandleFunc("GET /api/sessions/{sid}/frame", scenes.GetFrame)

	if events != nil {
		mux.Handle("GET /events", events)
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	return mux
}
