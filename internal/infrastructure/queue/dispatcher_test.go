package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
)

type recordingAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordingAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *recordingAuditRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_PersistsEvents(t *testing.T) {
	repo := &recordingAuditRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Record(domain.AuditEvent{
			UserID: fmt.Sprintf("u%d", i%5),
			Action: domain.AuditLogin,
			At:     time.Now().UTC(),
		})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == 20 })
}

func TestDispatcher_PerUserOrdering(t *testing.T) {
	repo := &recordingAuditRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.AuditAction{domain.AuditSignup, domain.AuditLogin, domain.AuditProfileUpdate, domain.AuditUserDeleted}
	for _, a := range actions {
		d.Record(domain.AuditEvent{UserID: "u1", Action: a})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == len(actions) })

	var got []domain.AuditAction
	for _, e := range repo.snapshot() {
		if e.UserID == "u1" {
			got = append(got, e.Action)
		}
	}
	for i, a := range actions {
		if got[i] != a {
			t.Fatalf("events out of order: got %v want %v", got, actions)
		}
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingAuditRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
