package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"orbitview/internal/config"
	"orbitview/internal/domain"
	"orbitview/internal/events"
	"orbitview/internal/hub"
	"orbitview/internal/repository/sqlite"
	"orbitview/internal/selection"
)

const seedOutline = `
hub:
  id: studio
  name: Studio
themes:
  - id: film
    name: Film
    subgraphs:
      - {id: film-1, name: Short One}
      - {id: film-2, name: Short Two}
      - {id: film-3, name: Short Three}
  - id: music
    name: Music
    subgraphs:
      - {id: music-1, name: Album}
`

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

type fakeFrames struct {
	mu       sync.Mutex
	watching map[string]int
	messages []hub.Message
}

func (f *fakeFrames) Publish(msg hub.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeFrames) SessionClients(session string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watching[session]
}

type fixture struct {
	nodes  *NodeService
	scenes *SceneService
	pub    *recordingPublisher
	frames *fakeFrames
	bus    chan Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	f := &fixture{
		pub:    &recordingPublisher{},
		frames: &fakeFrames{watching: map[string]int{}},
		bus:    make(chan Event, 64),
	}
	bus := NewEventBus()
	bus.Subscribe(f.bus)

	f.scenes = NewSceneService(config.DefaultConfig(), f.frames, f.pub, bus, nil)
	f.nodes = NewNodeService(repo, bus, f.scenes)

	if _, err := f.nodes.Import(context.Background(), "outline", strings.NewReader(seedOutline)); err != nil {
		t.Fatalf("import: %v", err)
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func topic(suffix string) string {
	return events.Topic("orbitview", suffix)
}

func TestImportFeedsScenes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, frame, err := f.scenes.Open(ctx, Viewport{Aspect: ptr(1.6)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}
	// hub + two themes
	if len(frame.Positions) != 3 {
		t.Errorf("got %d positions, want 3", len(frame.Positions))
	}
	if f.pub.count(topic(events.TopicSessionOpened)) != 1 {
		t.Error("session.opened not published")
	}
	if f.pub.count(topic(events.TopicNodesReloaded)) != 1 {
		t.Error("nodes.reloaded not published after import")
	}
}

func TestSelectionPublishesEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _, _ := f.scenes.Open(ctx, Viewport{})

	tr, err := f.scenes.SelectTheme(ctx, id, "film")
	if err != nil {
		t.Fatalf("SelectTheme: %v", err)
	}
	if tr.To.State != selection.StateThemeActive {
		t.Errorf("state = %s", tr.To.State)
	}

	frame, err := f.scenes.Frame(ctx, id)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	children := 0
	for _, p := range frame.Positions {
		if p.Ring == domain.RingChild {
			children++
		}
	}
	if children != 3 {
		t.Errorf("got %d children, want 3", children)
	}

	if _, err := f.scenes.ClickEmptySpace(ctx, id); err != nil {
		t.Fatalf("ClickEmptySpace: %v", err)
	}
	if n := f.pub.count(topic(events.TopicThemeSelected)); n != 2 {
		t.Errorf("theme.selected published %d times, want 2", n)
	}

	if _, err := f.scenes.SelectTheme(ctx, id, "film-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for subgraph id, got %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _, _ := f.scenes.Open(ctx, Viewport{})
	b, _, _ := f.scenes.Open(ctx, Viewport{})

	f.scenes.SelectTheme(ctx, a, "film")

	fb, _ := f.scenes.Frame(ctx, b)
	if fb.Selection.Selection.HasActive() {
		t.Error("selection leaked into another session")
	}
}

func TestMobileDrillDownFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _, _ := f.scenes.Open(ctx, Viewport{IsMobile: ptr(true)})

	if err := f.scenes.DrillDown(ctx, id); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("expected ErrNotAllowed while idle, got %v", err)
	}

	f.scenes.SelectTheme(ctx, id, "film")
	if err := f.scenes.DrillDown(ctx, id); err != nil {
		t.Fatalf("DrillDown: %v", err)
	}

	frame, _ := f.scenes.Frame(ctx, id)
	if len(frame.Cards) != 3 {
		t.Errorf("got %d cards, want 3", len(frame.Cards))
	}

	node, err := f.scenes.SelectSubgraph(ctx, id, "film-2")
	if err != nil || node.ID != "film-2" {
		t.Fatalf("SelectSubgraph = %v, %v", node, err)
	}
	if f.pub.count(topic(events.TopicSubgraphSelected)) != 1 {
		t.Error("subgraph.selected not published")
	}

	if err := f.scenes.SetViewport(ctx, id, Viewport{IsMobile: ptr(false)}); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	frame, _ = f.scenes.Frame(ctx, id)
	if frame.Device != domain.DeviceDesktop || len(frame.Cards) != 0 {
		t.Errorf("device = %s cards = %d after switching to desktop", frame.Device, len(frame.Cards))
	}
}

func TestDeletePrunesActiveTheme(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _, _ := f.scenes.Open(ctx, Viewport{})
	f.scenes.SelectTheme(ctx, id, "music")

	if err := f.nodes.DeleteNode(ctx, "music"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}

	frame, _ := f.scenes.Frame(ctx, id)
	if frame.Selection.Selection.HasActive() {
		t.Error("deleted theme still active")
	}
	if _, ok := frame.Position("music"); ok {
		t.Error("deleted theme still laid out")
	}
	if n := f.pub.count(topic(events.TopicThemeSelected)); n != 2 {
		t.Errorf("theme.selected published %d times, want 2", n)
	}
}

func TestUpsertValidatesParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.nodes.UpsertNode(ctx, &domain.Node{ID: "x", Name: "X", ParentID: "missing"})
	if !errors.Is(err, domain.ErrInvalidNode) {
		t.Errorf("expected ErrInvalidNode, got %v", err)
	}

	if err := f.nodes.UpsertNode(ctx, &domain.Node{ID: "art", Name: "Art", ParentID: "studio"}); err != nil {
		t.Fatalf("UpsertNode: %v", err)
	}
	id, frame, _ := f.scenes.Open(ctx, Viewport{})
	if _, ok := frame.Position("art"); !ok {
		t.Errorf("new theme missing from session %s", id)
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, format := range []string{"yaml", "json", "outline"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := f.nodes.Export(ctx, format, &buf); err != nil {
				t.Fatalf("Export: %v", err)
			}
			if !strings.Contains(buf.String(), "film-3") {
				t.Errorf("export missing nodes:\n%s", buf.String())
			}
		})
	}

	if err := f.nodes.Export(ctx, "csv", &bytes.Buffer{}); err == nil {
		t.Error("expected error for csv")
	}
}

func TestStepStreamsWatchedSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	watched, _, _ := f.scenes.Open(ctx, Viewport{})
	f.scenes.Open(ctx, Viewport{})
	f.frames.watching[watched] = 1

	f.scenes.Step(16 * time.Millisecond)

	if len(f.frames.messages) != 1 {
		t.Fatalf("published %d frames, want 1", len(f.frames.messages))
	}
	if msg := f.frames.messages[0]; msg.Session != watched || msg.Event != "frame" {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestExpireIdleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	clock := time.Now()
	f.scenes.now = func() time.Time { return clock }

	idle, _, _ := f.scenes.Open(ctx, Viewport{})
	watched, _, _ := f.scenes.Open(ctx, Viewport{})
	f.frames.watching[watched] = 1

	clock = clock.Add(time.Hour)
	if n := f.scenes.Expire(ctx, 10*time.Minute); n != 1 {
		t.Errorf("expired %d sessions, want 1", n)
	}
	if _, err := f.scenes.Frame(ctx, idle); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := f.scenes.Frame(ctx, watched); err != nil {
		t.Errorf("watched session expired: %v", err)
	}
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	fast := make(chan Event, 1)
	slow := make(chan Event)
	bus.Subscribe(fast)
	bus.Subscribe(slow)

	bus.Publish(Event{Type: EventNodeUpserted})

	select {
	case ev := <-fast:
		if ev.Type != EventNodeUpserted {
			t.Errorf("got %s", ev.Type)
		}
	default:
		t.Error("fast subscriber missed the event")
	}
}

func TestEventTypeTreeChange(t *testing.T) {
	tests := []struct {
		typ  EventType
		want bool
	}{
		{EventNodeUpserted, true},
		{EventNodesImported, true},
		{EventNodesReloaded, true},
		{EventThemeSelected, false},
		{EventSessionOpened, false},
	}
	for _, tt := range tests {
		if got := tt.typ.TreeChange(); got != tt.want {
			t.Errorf("%s.TreeChange() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
