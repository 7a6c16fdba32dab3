// Package service implements the host shell around the scene core.
//
// # Services
//
// NodeService manages the node tree in the repository and handles
// import/export via the codec package. Every change pushes a fresh
// snapshot to the scenes.
//
// SceneService owns one scene per browser session. It serializes all
// access to a scene, runs the frame loop that steps every scene and
// streams frames to the SSE hub. Sessions share nothing; each has its own
// selection and viewpoint.
//
// # Event System
//
// Both services publish events via EventBus for in-process listeners.
// Selection callbacks from the scenes are also forwarded to an
// events.Publisher (NATS when configured) for other processes.
package service
