package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"orbitview/internal/domain"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestTopic(t *testing.T) {
	if got := Topic("orbitview", TopicThemeSelected); got != "orbitview.theme.selected" {
		t.Errorf("Topic = %q", got)
	}
	if got := Topic("", TopicThemeSelected); got != TopicThemeSelected {
		t.Errorf("Topic without prefix = %q", got)
	}
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = &NoopPublisher{}
	if err := pub.Publish(context.Background(), TopicThemeSelected, ThemeSelected{}); err != nil {
		t.Fatalf("Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close returned unexpected error: %v", err)
	}
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 4)
	sub, err := nc.ChanSubscribe("orbitview.>", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	theme := domain.Node{ID: "film", Name: "Film", ParentID: "studio"}
	event := ThemeSelected{SessionID: "ov-1", Theme: &theme}
	if err := pub.Publish(context.Background(), Topic("orbitview", TopicThemeSelected), event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.Flush()

	select {
	case msg := <-ch:
		if msg.Subject != "orbitview.theme.selected" {
			t.Errorf("subject = %q", msg.Subject)
		}
		var got ThemeSelected
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.SessionID != "ov-1" || got.Theme == nil || got.Theme.ID != "film" {
			t.Errorf("unexpected event %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_CanceledContext(t *testing.T) {
	url := startTestNATS(t)
	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicThemeSelected, ThemeSelected{}); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestNewNATSPublisher_BadURL(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", nats.MaxReconnects(0), nats.Timeout(200*time.Millisecond)); err == nil {
		t.Error("expected connection error")
	}
}
