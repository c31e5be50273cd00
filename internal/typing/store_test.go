package typing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(staleness time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(staleness)
	s.now = clock.now
	return s, clock
}

func TestSignal_LeadingEdge(t *testing.T) {
	s, _ := newTestStore(10 * time.Second)
	threadId, userId := uuid.New(), uuid.New()

	assert.True(t, s.Signal(threadId, userId), "first signal should report newly active")
	assert.False(t, s.Signal(threadId, userId), "repeat signal should not report newly active")
	assert.True(t, s.IsActive(threadId, userId))
}

func TestSignal_RefreshExtendsWindow(t *testing.T) {
	s, clock := newTestStore(10 * time.Second)
	threadId, userId := uuid.New(), uuid.New()

	s.Signal(threadId, userId)
	clock.advance(8 * time.Second)
	assert.False(t, s.Signal(threadId, userId), "refresh within window is not a new activation")

	// 8s after the refresh is 16s after the first signal. Without the
	// refresh the indicator would already be stale.
	clock.advance(8 * time.Second)
	assert.True(t, s.IsActive(threadId, userId))
}

func TestSignal_AfterStalenessIsNewActivation(t *testing.T) {
	s, clock := newTestStore(10 * time.Second)
	threadId, userId := uuid.New(), uuid.New()

	s.Signal(threadId, userId)
	clock.advance(11 * time.Second)

	assert.False(t, s.IsActive(threadId, userId), "stale entry should read as inactive before sweep")
	assert.True(t, s.Signal(threadId, userId), "signal after expiry should report newly active")
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(10 * time.Second)
	threadId, userId := uuid.New(), uuid.New()

	s.Signal(threadId, userId)
	s.Clear(threadId, userId)

	assert.False(t, s.IsActive(threadId, userId))
	assert.True(t, s.Signal(threadId, userId), "signal after clear should report newly active")
}

func TestActiveUsers(t *testing.T) {
	s, clock := newTestStore(10 * time.Second)
	threadId := uuid.New()
	fresh, stale := uuid.New(), uuid.New()

	s.Signal(threadId, stale)
	clock.advance(11 * time.Second)
	s.Signal(threadId, fresh)
	s.Signal(uuid.New(), uuid.New()) // other thread must not leak in

	users := s.ActiveUsers(threadId)
	assert.Equal(t, []uuid.UUID{fresh}, users)
}

func TestSweep_RemovesOnlyStaleEntries(t *testing.T) {
	s, clock := newTestStore(10 * time.Second)
	threadId := uuid.New()
	old, recent := uuid.New(), uuid.New()

	s.Signal(threadId, old)
	clock.advance(11 * time.Second)
	s.Signal(threadId, recent)

	assert.Equal(t, 1, s.sweep())
	assert.Len(t, s.active, 1)
	assert.True(t, s.IsActive(threadId, recent))
}
