// Package handler implements the orbitview HTTP API.
//
// NodeHandler covers the node tree: listing, single-node CRUD, and bulk
// import/export in yaml, json and outline formats.
//
// SceneHandler drives per-session scenes. A client opens a session, then
// reports clicks, hovers, drill-down and viewport changes against it.
// Each mutating call answers with the resulting transition or frame;
// continuous frames arrive over the /events SSE stream filtered by
// ?session=.
//
// Errors are returned as JSON {error, details}. Unknown nodes and
// sessions map to 404, invalid input to 400, and actions that do not
// apply in the current selection state (drill-down on desktop, picking a
// card while the list is closed) to 409.
package handler
