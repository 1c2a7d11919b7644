package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

func enqueue(t *testing.T, outbox ports.OutboxRepository, key string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := outbox.Enqueue(context.Background(), ports.OutboxEvent{
		EventID:      id,
		EventType:    "erp.entity_changed",
		PartitionKey: key,
		Payload:      []byte(`{"entity_id":"` + key + `"}`),
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}
	return id
}

func TestOutboxWorkerPublishesPendingInOrder(t *testing.T) {
	repos := memory.NewRepositories()
	pub := NewMemoryPublisher()
	w := NewOutboxWorker(slog.New(slog.NewTextHandler(io.Discard, nil)), repos.Outbox, pub, time.Second, 10, 3)

	enqueue(t, repos.Outbox, "a")
	enqueue(t, repos.Outbox, "b")

	n, err := w.processOnce(context.Background())
	if err != nil {
		t.Fatalf("processOnce error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 published, got %d", n)
	}
	events := pub.Events()
	if len(events) != 2 || events[0].PartitionKey != "a" || events[1].PartitionKey != "b" {
		t.Fatalf("unexpected publish order: %+v", events)
	}
	if repos.Outbox.Pending() != 0 {
		t.Fatalf("expected empty outbox, %d pending", repos.Outbox.Pending())
	}

	n, _ = w.processOnce(context.Background())
	if n != 0 {
		t.Fatalf("expected nothing on second pass, got %d", n)
	}
}

func TestOutboxWorkerStopsRetryingAfterLimit(t *testing.T) {
	repos := memory.NewRepositories()
	pub := NewMemoryPublisher()
	pub.FailWith(errors.New("broker down"))
	w := NewOutboxWorker(slog.New(slog.NewTextHandler(io.Discard, nil)), repos.Outbox, pub, time.Second, 10, 2)
	enqueue(t, repos.Outbox, "a")

	for i := 0; i < 3; i++ {
		if _, err := w.processOnce(context.Background()); err != nil {
			t.Fatalf("processOnce error: %v", err)
		}
	}
	rows, _ := repos.Outbox.FetchUnpublished(context.Background(), 10)
	if len(rows) != 1 || rows[0].RetryCount != 2 {
		t.Fatalf("expected one record with 2 retries, got %+v", rows)
	}

	pub.FailWith(nil)
	n, _ := w.processOnce(context.Background())
	if n != 0 {
		t.Fatalf("exhausted record must not be relayed, got %d", n)
	}
}
