package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"

	"github.com/jensholdgaard/eventdesk/internal/event"
	"github.com/jensholdgaard/eventdesk/internal/notify"
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

func TestNATSPublisher_DeliversJSON(t *testing.T) {
	url := startTestNATS(t)

	sub, err := notify.NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(notify.SubjectAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	pub, err := notify.NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx := context.Background()
	created := event.Event{ID: 4, Title: "Rowdies vs Orlando City", Date: "2025-11-14", Location: "Al Lang Stadium", Price: 35}
	if err := pub.Publish(ctx, notify.SubjectEventCreated, notify.EventCreated{Event: created}); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	if err := pub.Flush(ctx); err != nil {
		t.Fatalf("flushing: %v", err)
	}

	select {
	case msg := <-ch:
		var got notify.EventCreated
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("decoding payload %q: %v", msg, err)
		}
		if got.Event != created {
			t.Errorf("payload event = %+v, want %+v", got.Event, created)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_SubjectFilter(t *testing.T) {
	url := startTestNATS(t)

	sub, err := notify.NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(notify.SubjectEventDeleted)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	pub, err := notify.NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx := context.Background()
	if err := pub.Publish(ctx, notify.SubjectEventUpdated, notify.EventUpdated{}); err != nil {
		t.Fatalf("publishing update: %v", err)
	}
	if err := pub.Publish(ctx, notify.SubjectEventDeleted, notify.EventDeleted{EventID: 12}); err != nil {
		t.Fatalf("publishing delete: %v", err)
	}
	if err := pub.Flush(ctx); err != nil {
		t.Fatalf("flushing: %v", err)
	}

	select {
	case msg := <-ch:
		if string(msg) != `{"event_id":12}` {
			t.Errorf("got %q, want only the delete payload", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_Cancel(t *testing.T) {
	url := startTestNATS(t)

	sub, err := notify.NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(notify.SubjectAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	cancel()
	cancel() // idempotent

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	if _, err := notify.NewNATSPublisher("nats://127.0.0.1:1"); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestNoopPublisher(t *testing.T) {
	var p notify.Publisher = notify.NoopPublisher{}
	if err := p.Publish(context.Background(), notify.SubjectEventCreated, notify.EventCreated{}); err != nil {
		t.Errorf("Publish() = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
