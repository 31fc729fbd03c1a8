package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/spit-library/auth-service/internal/core/domain"
)

type channelProfiles struct {
	appended chan string
	err      error
}

func (s *channelProfiles) Read(context.Context, string) (*domain.UserProfileRecord, error) {
	return nil, domain.ErrProfileNotFound
}

func (s *channelProfiles) Merge(context.Context, string, domain.ProfileFields) error {
	return nil
}

func (s *channelProfiles) Create(context.Context, string, string) error {
	return nil
}

func (s *channelProfiles) AppendLoginEvent(_ context.Context, uid string) error {
	s.appended <- uid
	return s.err
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	profiles := &channelProfiles{appended: make(chan string, 8)}
	d := NewLoginEventDispatcher(2, profiles, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record("u1")
	d.Record("u2")

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case uid := <-profiles.appended:
			got[uid] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for appends, got %v", got)
		}
	}
	if !got["u1"] || !got["u2"] {
		t.Fatalf("missing appends: %v", got)
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewLoginEventDispatcher(4, &channelProfiles{appended: make(chan string, 1)}, zerolog.Nop())
	first := d.shardIndex("user-abc")
	for i := 0; i < 10; i++ {
		if d.shardIndex("user-abc") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewLoginEventDispatcher(0, &channelProfiles{appended: make(chan string, 1)}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
