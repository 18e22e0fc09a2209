package availability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestNewRegistry_Defaults(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil, 0)
	require.Equal(t, DefaultStaleAfter, r.staleAfter)
	require.IsType(t, RealClock{}, r.clock)
}

func TestRegistry_MarkAvailable_Idempotent(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := NewRegistry(clock, time.Minute)

	r.MarkAvailable(1, "560001")
	first := r.shardFor("560001", false).members[1].lastSeen

	clock.Advance(30 * time.Second)
	r.MarkAvailable(1, "560001")

	s := r.shardFor("560001", false)
	require.Len(t, s.members, 1)
	require.True(t, s.members[1].lastSeen.After(first))
	require.Equal(t, []int64{1}, r.ListAvailable("560001"))
}

func TestRegistry_ListAvailable_KeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry(newFakeClock(), time.Minute)
	r.MarkAvailable(3, "a")
	r.MarkAvailable(1, "a")
	r.MarkAvailable(2, "a")
	r.MarkAvailable(3, "a")

	require.Equal(t, []int64{3, 1, 2}, r.ListAvailable("a"))
}

func TestRegistry_ListAvailable_ReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewRegistry(newFakeClock(), time.Minute)
	r.MarkAvailable(1, "a")

	got := r.ListAvailable("a")
	got[0] = 99

	require.Equal(t, []int64{1}, r.ListAvailable("a"))
}

func TestRegistry_MarkUnavailable(t *testing.T) {
	t.Parallel()

	r := NewRegistry(newFakeClock(), time.Minute)
	r.MarkAvailable(1, "a")
	r.MarkAvailable(2, "a")

	r.MarkUnavailable(1, "a")
	r.MarkUnavailable(1, "a")
	r.MarkUnavailable(7, "unknown")

	require.Equal(t, []int64{2}, r.ListAvailable("a"))
	require.False(t, r.Heartbeat(1))
}

func TestRegistry_StaleEntriesAreEvicted(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := NewRegistry(clock, 5*time.Minute)
	r.MarkAvailable(1, "a")
	r.MarkAvailable(2, "a")

	clock.Advance(4 * time.Minute)
	require.True(t, r.Heartbeat(2))

	clock.Advance(2 * time.Minute)
	require.Equal(t, []int64{2}, r.ListAvailable("a"))
	require.Equal(t, 1, r.Size(), "stale entry evicted lazily")
	require.False(t, r.Heartbeat(1))
}

func TestRegistry_Heartbeat_DoesNotAddMembership(t *testing.T) {
	t.Parallel()

	r := NewRegistry(newFakeClock(), time.Minute)
	require.False(t, r.Heartbeat(42))
	require.Empty(t, r.ListAvailable("a"))
}

func TestRegistry_Heartbeat_StaleEntryNotRevived(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := NewRegistry(clock, 5*time.Minute)
	r.MarkAvailable(1, "a")

	clock.Advance(30 * time.Minute)
	require.False(t, r.Heartbeat(1))
	require.Empty(t, r.ListAvailable("a"))
	require.Zero(t, r.Size())

	r.MarkAvailable(1, "a")
	require.True(t, r.Heartbeat(1))
	require.Equal(t, []int64{1}, r.ListAvailable("a"))
}

func TestRegistry_MoveBetweenAreas(t *testing.T) {
	t.Parallel()

	r := NewRegistry(newFakeClock(), time.Minute)
	r.MarkAvailable(1, "a")
	r.MarkAvailable(1, "b")

	require.Empty(t, r.ListAvailable("a"))
	require.Equal(t, []int64{1}, r.ListAvailable("b"))
	require.True(t, r.Contains(1, "b"))
	require.False(t, r.Contains(1, "a"))
}

func TestRegistry_SweepAndAreas(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := NewRegistry(clock, time.Minute)
	r.MarkAvailable(1, "a")
	r.MarkAvailable(2, "b")
	r.MarkAvailable(3, "b")

	require.Equal(t, []string{"a", "b"}, r.Areas())

	clock.Advance(50 * time.Second)
	r.Heartbeat(3)
	clock.Advance(20 * time.Second)

	require.Equal(t, 2, r.Sweep())
	require.Equal(t, []string{"b"}, r.Areas())
	require.Equal(t, 1, r.Size())
}

func TestRegistry_IgnoresBlankArea(t *testing.T) {
	t.Parallel()

	r := NewRegistry(newFakeClock(), time.Minute)
	r.MarkAvailable(1, "")
	require.Zero(t, r.Size())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry(newFakeClock(), time.Minute)
	areas := []string{"a", "b", "c"}

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := int64(i % 20)
				area := areas[(w+i)%len(areas)]
				switch i % 4 {
				case 0:
					r.MarkAvailable(id, area)
				case 1:
					r.Heartbeat(id)
				case 2:
					_ = r.ListAvailable(area)
				default:
					r.MarkUnavailable(id, area)
				}
			}
		}(w)
	}
	wg.Wait()

	require.LessOrEqual(t, r.Size(), 20*len(areas))
	for _, area := range areas {
		ids := r.ListAvailable(area)
		uniq := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			uniq[id] = struct{}{}
		}
		require.Len(t, uniq, len(ids))
	}
}
