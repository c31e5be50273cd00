package typing

import (
	"context"
	"sync"
	"time"

	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/logger"
)

type key struct {
	Thread domain.ThreadId
	User   domain.UserId
}

// Store keeps per-thread typing activity in memory. Indicators are
// ephemeral: an entry is considered active while it is younger than the
// staleness window and is physically removed by the background sweeper.
type Store struct {
	mu        sync.Mutex
	active    map[key]time.Time
	staleness time.Duration

	now func() time.Time // injectable for tests
}

func NewStore(staleness time.Duration) *Store {
	return &Store{
		active:    make(map[key]time.Time),
		staleness: staleness,
		now:       time.Now,
	}
}

// Signal records that user is typing in thread and refreshes the entry's
// timestamp. It reports whether the user was NOT already actively typing,
// so callers can notify on the leading edge only.
func (s *Store) Signal(threadId domain.ThreadId, userId domain.UserId) bool {
	k := key{Thread: threadId, User: userId}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.active[k]
	s.active[k] = now
	return !ok || now.Sub(last) >= s.staleness
}

// Clear removes the user's indicator for the thread, typically because the
// message was actually sent.
func (s *Store) Clear(threadId domain.ThreadId, userId domain.UserId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, key{Thread: threadId, User: userId})
}

// IsActive reports whether the user has a fresh typing indicator in the
// thread. Entries past the staleness window count as inactive even if the
// sweeper has not removed them yet.
func (s *Store) IsActive(threadId domain.ThreadId, userId domain.UserId) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.active[key{Thread: threadId, User: userId}]
	return ok && s.now().Sub(last) < s.staleness
}

// ActiveUsers returns the users with a fresh typing indicator in the thread.
func (s *Store) ActiveUsers(threadId domain.ThreadId) []domain.UserId {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var users []domain.UserId
	for k, last := range s.active {
		if k.Thread == threadId && now.Sub(last) < s.staleness {
			users = append(users, k.User)
		}
	}
	return users
}

func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, last := range s.active {
		if now.Sub(last) >= s.staleness {
			delete(s.active, k)
			removed++
		}
	}
	return removed
}

// StartSweeper starts a background goroutine that periodically drops stale
// indicators. It stops when ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started typing indicator sweeper",
		"component", "typing_store",
		"interval", interval,
		"staleness", s.staleness)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := s.sweep(); removed > 0 {
					logger.Log.Debug("swept stale typing indicators",
						"component", "typing_store",
						"removed", removed)
				}
			case <-ctx.Done():
				logger.Log.Info("typing indicator sweeper shutting down gracefully",
					"component", "typing_store")
				return
			}
		}
	}()
}
