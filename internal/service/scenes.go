package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"orbitview/internal/config"
	"orbitview/internal/domain"
	"orbitview/internal/events"
	"orbitview/internal/hub"
	"orbitview/internal/idgen"
	"orbitview/internal/scene"
	"orbitview/internal/selection"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotAllowed is returned when an action does not apply in the
	// session's current state
	ErrNotAllowed = errors.New("action not allowed in current state")
)

// FrameSink receives frames for streaming. *hub.Hub implements it.
type FrameSink interface {
	Publish(msg hub.Message)
	SessionClients(session string) int
}

// Viewport is what the host reports about its rendering surface. Nil
// fields are left unchanged.
type Viewport struct {
	IsMobile *bool    `json:"is_mobile,omitempty"`
	Aspect   *float64 `json:"aspect,omitempty"`
	Zoom     *float64 `json:"zoom,omitempty"`
}

// SessionInfo summarizes an open session
type SessionInfo struct {
	ID       string             `json:"id"`
	Device   domain.DeviceClass `json:"device"`
	LastSeen time.Time          `json:"last_seen"`
	Clients  int                `json:"clients"`
}

type pendingEvent struct {
	topic   string
	busType EventType
	payload any
}

type session struct {
	id       string
	scene    *scene.Scene
	lastSeen time.Time
	pending  []pendingEvent
}

// SceneService owns one scene per session and drives their frame loop
type SceneService struct {
	mu       sync.Mutex
	sessions map[string]*session
	nodes    []domain.Node

	cfg       *config.Config
	frames    FrameSink
	publisher events.Publisher
	eventBus  *EventBus
	logger    *slog.Logger
	now       func() time.Time
}

// NewSceneService creates the session registry. frames and publisher may
// be nil.
func NewSceneService(cfg *config.Config, frames FrameSink, publisher events.Publisher, eventBus *EventBus, logger *slog.Logger) *SceneService {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SceneService{
		sessions:  make(map[string]*session),
		cfg:       cfg,
		frames:    frames,
		publisher: publisher,
		eventBus:  eventBus,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNodes replaces the snapshot for every live scene and for scenes
// opened later.
func (s *SceneService) SetNodes(nodes []domain.Node) {
	snapshot := make([]domain.Node, len(nodes))
	copy(snapshot, nodes)

	s.mu.Lock()
	s.nodes = snapshot
	var flush []*session
	for _, sess := range s.sessions {
		sess.scene.SetNodes(snapshot)
		if len(sess.pending) > 0 {
			flush = append(flush, sess)
		}
	}
	pending := s.drain(flush)
	s.mu.Unlock()

	pending = append(pending, pendingEvent{
		topic:   events.TopicNodesReloaded,
		payload: events.NodesReloaded{Count: len(snapshot)},
	})
	s.emit(pending)
	s.logger.Debug("node snapshot applied", "nodes", len(snapshot))
}

// Open creates a new session with its own scene
func (s *SceneService) Open(ctx context.Context, vp Viewport) (string, scene.Frame, error) {
	id, err := idgen.Generate()
	if err != nil {
		return "", scene.Frame{}, fmt.Errorf("open session: %w", err)
	}

	isMobile := vp.IsMobile != nil && *vp.IsMobile
	sess := &session{id: id, lastSeen: s.now()}
	opts := scene.Options{
		IsMobile:   isMobile,
		StayActive: !s.cfg.ToggleOff(),
		Profiles:   s.cfg.EffectiveProfile,
		OnThemeSelect: func(theme *domain.Node) {
			sess.pending = append(sess.pending, pendingEvent{
				topic:   events.TopicThemeSelected,
				busType: EventThemeSelected,
				payload: events.ThemeSelected{SessionID: id, Theme: theme},
			})
		},
		OnSubgraphSelect: func(sub domain.Node) {
			sess.pending = append(sess.pending, pendingEvent{
				topic:   events.TopicSubgraphSelected,
				busType: EventSubgraphSelected,
				payload: events.SubgraphSelected{SessionID: id, Subgraph: sub},
			})
		},
	}
	if vp.Aspect != nil {
		opts.Aspect = *vp.Aspect
	}
	if vp.Zoom != nil {
		opts.Zoom = *vp.Zoom
	}

	s.mu.Lock()
	sess.scene = scene.New(s.nodes, opts)
	s.sessions[id] = sess
	frame := sess.scene.Step(0)
	s.mu.Unlock()

	device := domain.DeviceFromMobile(isMobile)
	s.emit([]pendingEvent{{
		topic:   events.TopicSessionOpened,
		busType: EventSessionOpened,
		payload: events.SessionOpened{SessionID: id, Device: device},
	}})
	s.logger.Info("session opened", "session", id, "device", device)
	return id, frame, nil
}

// Close discards a session
func (s *SceneService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	s.emit([]pendingEvent{{
		topic:   events.TopicSessionClosed,
		busType: EventSessionClosed,
		payload: events.SessionClosed{SessionID: id},
	}})
	s.logger.Info("session closed", "session", id)
	return nil
}

// Sessions lists open sessions
func (s *SceneService) Sessions() []SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		info := SessionInfo{ID: sess.id, Device: sess.scene.Device(), LastSeen: sess.lastSeen}
		if s.frames != nil {
			info.Clients = s.frames.SessionClients(sess.id)
		}
		infos = append(infos, info)
	}
	return infos
}

// with runs fn against a session's scene under the lock, then publishes
// whatever the scene's callbacks queued.
func (s *SceneService) with(id string, fn func(sc *scene.Scene) error) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	sess.lastSeen = s.now()
	err := fn(sess.scene)
	pending := s.drain([]*session{sess})
	s.mu.Unlock()

	s.emit(pending)
	return err
}

// SelectTheme selects, switches or toggles a theme
func (s *SceneService) SelectTheme(ctx context.Context, id, themeID string) (selection.Transition, error) {
	var tr selection.Transition
	err := s.with(id, func(sc *scene.Scene) error {
		var ok bool
		if tr, ok = sc.SelectTheme(themeID); !ok {
			return fmt.Errorf("theme %s: %w", themeID, domain.ErrNotFound)
		}
		return nil
	})
	return tr, err
}

// ClickEmptySpace returns the session to the overview
func (s *SceneService) ClickEmptySpace(ctx context.Context, id string) (selection.Transition, error) {
	var tr selection.Transition
	err := s.with(id, func(sc *scene.Scene) error {
		tr = sc.ClickEmptySpace()
		return nil
	})
	return tr, err
}

// Hover marks a node as hovered
func (s *SceneService) Hover(ctx context.Context, id, nodeID string) error {
	return s.with(id, func(sc *scene.Scene) error {
		if !sc.Hover(nodeID) {
			return fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
		}
		return nil
	})
}

// Unhover clears the hovered node
func (s *SceneService) Unhover(ctx context.Context, id string) error {
	return s.with(id, func(sc *scene.Scene) error {
		sc.Unhover()
		return nil
	})
}

// DrillDown opens the card list on mobile
func (s *SceneService) DrillDown(ctx context.Context, id string) error {
	return s.with(id, func(sc *scene.Scene) error {
		if !sc.DrillDown() {
			return fmt.Errorf("drill down: %w", ErrNotAllowed)
		}
		return nil
	})
}

// DrillUp closes the card list
func (s *SceneService) DrillUp(ctx context.Context, id string) error {
	return s.with(id, func(sc *scene.Scene) error {
		if !sc.DrillUp() {
			return fmt.Errorf("drill up: %w", ErrNotAllowed)
		}
		return nil
	})
}

// SelectSubgraph picks a card from the open list
func (s *SceneService) SelectSubgraph(ctx context.Context, id, nodeID string) (domain.Node, error) {
	var node domain.Node
	err := s.with(id, func(sc *scene.Scene) error {
		var ok bool
		if node, ok = sc.SelectSubgraph(nodeID); !ok {
			return fmt.Errorf("select subgraph %s: %w", nodeID, ErrNotAllowed)
		}
		return nil
	})
	return node, err
}

// SetViewport applies device class, aspect and zoom changes
func (s *SceneService) SetViewport(ctx context.Context, id string, vp Viewport) error {
	return s.with(id, func(sc *scene.Scene) error {
		if vp.IsMobile != nil {
			sc.SetDevice(*vp.IsMobile)
		}
		if vp.Aspect != nil {
			sc.Resize(*vp.Aspect)
		}
		if vp.Zoom != nil {
			sc.SetZoom(*vp.Zoom)
		}
		return nil
	})
}

// Frame returns the session's current frame without advancing it
func (s *SceneService) Frame(ctx context.Context, id string) (scene.Frame, error) {
	var f scene.Frame
	err := s.with(id, func(sc *scene.Scene) error {
		f = sc.Frame()
		return nil
	})
	return f, err
}

// Step advances every scene by dt and streams frames to watching clients
func (s *SceneService) Step(dt time.Duration) {
	type out struct {
		id    string
		frame scene.Frame
	}

	s.mu.Lock()
	frames := make([]out, 0, len(s.sessions))
	var flush []*session
	for id, sess := range s.sessions {
		f := sess.scene.Step(dt)
		if s.frames != nil && s.frames.SessionClients(id) > 0 {
			frames = append(frames, out{id: id, frame: f})
		}
		if len(sess.pending) > 0 {
			flush = append(flush, sess)
		}
	}
	pending := s.drain(flush)
	s.mu.Unlock()

	s.emit(pending)
	for _, o := range frames {
		s.frames.Publish(hub.Message{Session: o.id, Event: "frame", Data: o.frame})
	}
}

// Expire closes sessions that nobody watched or touched for idle
func (s *SceneService) Expire(ctx context.Context, idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var stale []string
	for id, sess := range s.sessions {
		watched := s.frames != nil && s.frames.SessionClients(id) > 0
		if watched {
			sess.lastSeen = s.now()
			continue
		}
		if sess.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		if err := s.Close(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("failed to expire session", "session", id, "error", err)
		}
	}
	return len(stale)
}

// Run steps all scenes at the configured frame rate until ctx is done
func (s *SceneService) Run(ctx context.Context) error {
	interval := s.cfg.FrameInterval()
	idle := s.cfg.Server.SessionIdle.Duration()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	s.logger.Info("frame loop started", "interval", interval)
	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := s.now()
			s.Step(now.Sub(last))
			last = now
		case <-sweep.C:
			if idle > 0 {
				if n := s.Expire(ctx, idle); n > 0 {
					s.logger.Info("expired idle sessions", "count", n)
				}
			}
		}
	}
}

// drain collects queued callback events; callers hold s.mu
func (s *SceneService) drain(sessions []*session) []pendingEvent {
	var out []pendingEvent
	for _, sess := range sessions {
		out = append(out, sess.pending...)
		sess.pending = nil
	}
	return out
}

// emit publishes outside the lock. Publisher failures are logged and
// never fail the user action. Events without a bus type go to the
// publisher only.
func (s *SceneService) emit(pending []pendingEvent) {
	for _, ev := range pending {
		if ev.busType != "" {
			s.eventBus.Publish(Event{Type: ev.busType, Payload: ev.payload})
		}
		if err := s.publisher.Publish(context.Background(), events.Topic(s.cfg.Events.Subject, ev.topic), ev.payload); err != nil {
			s.logger.Warn("failed to publish event", "topic", ev.topic, "error", err)
		}
	}
}
