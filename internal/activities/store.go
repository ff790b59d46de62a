package activities

import (
	"context"
	"sync"

	apperrors "activity-signup/internal/common/errors"
	"activity-signup/pkg/registry"
)

// Store holds the activity registry. AddParticipant and RemoveParticipant
// check and mutate atomically and return the roster size after the change.
type Store interface {
	List(ctx context.Context) (Registry, error)
	AddParticipant(ctx context.Context, activity, email string) (int, error)
	RemoveParticipant(ctx context.Context, activity, email string) (int, error)
	Ping(ctx context.Context) error
}

// MemoryStore keeps the registry in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	activities map[string]*Activity
}

// NewMemoryStore builds a store holding a private copy of seed.
func NewMemoryStore(seed *registry.Seed) *MemoryStore {
	activities := make(map[string]*Activity, len(seed.Activities))
	for name, def := range seed.Activities {
		a := fromDefinition(def)
		activities[name] = &a
	}
	return &MemoryStore{activities: activities}
}

func (s *MemoryStore) List(_ context.Context) (Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Registry, len(s.activities))
	for name, a := range s.activities {
		out[name] = a.clone()
	}
	return out, nil
}

func (s *MemoryStore) AddParticipant(_ context.Context, activity, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[activity]
	if !ok {
		return 0, apperrors.NewActivityNotFoundError(activity)
	}
	if indexOf(a.Participants, email) >= 0 {
		return 0, apperrors.NewAlreadySignedUpError(activity, email)
	}
	a.Participants = append(a.Participants, email)
	return len(a.Participants), nil
}

func (s *MemoryStore) RemoveParticipant(_ context.Context, activity, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[activity]
	if !ok {
		return 0, apperrors.NewActivityNotFoundError(activity)
	}
	i := indexOf(a.Participants, email)
	if i < 0 {
		return 0, apperrors.NewNotRegisteredError(activity, email)
	}
	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	return len(a.Participants), nil
}

// Ping always succeeds for the in-process store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func indexOf(list []string, v string) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}
