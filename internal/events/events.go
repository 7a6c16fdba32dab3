// Package events fans selection activity out to other processes. The
// scene core only knows about callbacks; the service turns those into
// events published here.
package events

import (
	"context"

	"orbitview/internal/domain"
)

// Event topic suffixes. The configured subject prefix is prepended.
const (
	TopicThemeSelected    = "theme.selected"
	TopicSubgraphSelected = "subgraph.selected"
	TopicSessionOpened    = "session.opened"
	TopicSessionClosed    = "session.closed"
	TopicNodesReloaded    = "nodes.reloaded"
)

// Topic joins a subject prefix and a topic suffix
func Topic(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "." + suffix
}

// ThemeSelected is published on every selection transition. Theme is
// nil when the scene returned to the overview.
type ThemeSelected struct {
	SessionID string       `json:"session_id"`
	Theme     *domain.Node `json:"theme"`
}

type SubgraphSelected struct {
	SessionID string      `json:"session_id"`
	Subgraph  domain.Node `json:"subgraph"`
}

type SessionOpened struct {
	SessionID string             `json:"session_id"`
	Device    domain.DeviceClass `json:"device"`
}

type SessionClosed struct {
	SessionID string `json:"session_id"`
}

type NodesReloaded struct {
	Count int `json:"count"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
