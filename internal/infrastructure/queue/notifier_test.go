package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

type recordingService struct {
	mu        sync.Mutex
	inserted  []ports.NewNotificationInput
	insertErr error
}

func (s *recordingService) Insert(_ context.Context, in ports.NewNotificationInput) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.inserted = append(s.inserted, in)
	return &domain.Notification{Message: in.Message}, nil
}

func (s *recordingService) GetByUserID(_ context.Context, _ string) (*ports.NotificationFeed, error) {
	return nil, nil
}

func (s *recordingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
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
	t.Fatalf("condition not met within deadline")
}

func TestNotifier_EmitPersistsInBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &recordingService{}
	n := NewNotifier(2, svc, zerolog.Nop())
	n.Start(ctx)

	for i := 0; i < 5; i++ {
		n.Emit(ports.NewNotificationInput{Message: "login event"})
	}

	waitFor(t, func() bool { return svc.count() == 5 })
}

func TestNotifier_InsertFailureIsNotPropagated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &recordingService{insertErr: errors.New("db down")}
	n := NewNotifier(1, svc, zerolog.Nop())
	n.Start(ctx)

	// Emit never returns an error; the failure is absorbed by the worker.
	n.Emit(ports.NewNotificationInput{Message: "doomed"})

	waitFor(t, func() bool { return len(n.ch) == 0 })
	if svc.count() != 0 {
		t.Fatalf("expected no successful inserts")
	}
}

func TestNotifier_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	// No workers started: the buffer fills and further emits must not block.
	svc := &recordingService{}
	n := NewNotifier(1, svc, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			n.Emit(ports.NewNotificationInput{Message: "burst"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("emit blocked on a full buffer")
	}
	if len(n.ch) != channelBuffer {
		t.Fatalf("expected buffer to hold %d entries, got %d", channelBuffer, len(n.ch))
	}
}
