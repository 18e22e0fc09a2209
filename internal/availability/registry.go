// Package availability keeps the in-process index of couriers that are
// online and below capacity, partitioned by service area.
//
// The index only narrows the candidate set for matching. Capacity and
// eligibility are always re-checked against the stores before an assignment.
package availability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultStaleAfter is the heartbeat staleness window.
const DefaultStaleAfter = 5 * time.Minute

// Registry maps service area → available couriers with their last heartbeat.
type Registry struct {
	clock      Clock
	staleAfter time.Duration

	shards sync.Map // area -> *shard
	homes  sync.Map // courierID -> area

	seq atomic.Uint64
}

type entry struct {
	seq      uint64
	lastSeen time.Time
}

type shard struct {
	mu      sync.RWMutex
	members map[int64]*entry
}

// NewRegistry creates an empty registry. A non-positive staleAfter uses DefaultStaleAfter.
func NewRegistry(clock Clock, staleAfter time.Duration) *Registry {
	if clock == nil {
		clock = RealClock{}
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Registry{clock: clock, staleAfter: staleAfter}
}

func (r *Registry) shardFor(area string, create bool) *shard {
	if s, ok := r.shards.Load(area); ok {
		return s.(*shard)
	}
	if !create {
		return nil
	}
	s, _ := r.shards.LoadOrStore(area, &shard{members: make(map[int64]*entry)})
	return s.(*shard)
}

// MarkAvailable inserts the courier into the area's set or refreshes its heartbeat.
// A courier already present keeps its place in the list.
func (r *Registry) MarkAvailable(courierID int64, area string) {
	if area == "" {
		return
	}
	if prev, ok := r.homes.Load(courierID); ok && prev.(string) != area {
		r.remove(courierID, prev.(string))
	}

	now := r.clock.Now()
	s := r.shardFor(area, true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.members[courierID]; ok {
		e.lastSeen = now
	} else {
		s.members[courierID] = &entry{seq: r.seq.Add(1), lastSeen: now}
	}
	r.homes.Store(courierID, area)
}

// MarkUnavailable removes the courier from the area's set.
func (r *Registry) MarkUnavailable(courierID int64, area string) {
	r.remove(courierID, area)
}

func (r *Registry) remove(courierID int64, area string) {
	s := r.shardFor(area, false)
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.members, courierID)
	r.homes.CompareAndDelete(courierID, area)
	s.mu.Unlock()
}

// Heartbeat refreshes the courier's last-seen time without changing membership.
// It reports whether the courier is currently indexed. A stale entry is evicted, not revived.
func (r *Registry) Heartbeat(courierID int64) bool {
	area, ok := r.homes.Load(courierID)
	if !ok {
		return false
	}
	s := r.shardFor(area.(string), false)
	if s == nil {
		return false
	}
	now := r.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.members[courierID]
	if !ok {
		return false
	}
	if r.expired(e, now) {
		delete(s.members, courierID)
		r.homes.CompareAndDelete(courierID, area)
		return false
	}
	e.lastSeen = now
	return true
}

// ListAvailable returns a copy of the live courier ids in the area, earliest-available first.
// Stale entries are skipped and evicted.
func (r *Registry) ListAvailable(area string) []int64 {
	s := r.shardFor(area, false)
	if s == nil {
		return nil
	}
	now := r.clock.Now()

	type live struct {
		id  int64
		seq uint64
	}
	var (
		fresh []live
		stale []int64
	)
	s.mu.RLock()
	for id, e := range s.members {
		if r.expired(e, now) {
			stale = append(stale, id)
			continue
		}
		fresh = append(fresh, live{id: id, seq: e.seq})
	}
	s.mu.RUnlock()

	if len(stale) > 0 {
		r.evict(area, s, stale, now)
	}

	sort.Slice(fresh, func(i, j int) bool { return fresh[i].seq < fresh[j].seq })
	out := make([]int64, len(fresh))
	for i, l := range fresh {
		out[i] = l.id
	}
	return out
}

// Contains reports whether the courier is live in the area.
func (r *Registry) Contains(courierID int64, area string) bool {
	s := r.shardFor(area, false)
	if s == nil {
		return false
	}
	now := r.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.members[courierID]
	return ok && !r.expired(e, now)
}

// Sweep evicts stale entries from every area and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.clock.Now()
	removed := 0
	r.shards.Range(func(key, value any) bool {
		area, s := key.(string), value.(*shard)
		var stale []int64
		s.mu.RLock()
		for id, e := range s.members {
			if r.expired(e, now) {
				stale = append(stale, id)
			}
		}
		s.mu.RUnlock()
		if len(stale) > 0 {
			removed += r.evict(area, s, stale, now)
		}
		return true
	})
	return removed
}

// Areas returns the service areas that currently have at least one indexed courier.
func (r *Registry) Areas() []string {
	var out []string
	r.shards.Range(func(key, value any) bool {
		s := value.(*shard)
		s.mu.RLock()
		n := len(s.members)
		s.mu.RUnlock()
		if n > 0 {
			out = append(out, key.(string))
		}
		return true
	})
	sort.Strings(out)
	return out
}

// Size returns the number of indexed couriers across all areas, stale ones included.
func (r *Registry) Size() int {
	total := 0
	r.shards.Range(func(_, value any) bool {
		s := value.(*shard)
		s.mu.RLock()
		total += len(s.members)
		s.mu.RUnlock()
		return true
	})
	return total
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) > r.staleAfter
}

// evict re-checks staleness under the write lock; a heartbeat may have landed in between.
func (r *Registry) evict(area string, s *shard, ids []int64, now time.Time) int {
	removed := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if e, ok := s.members[id]; ok && r.expired(e, now) {
			delete(s.members, id)
			r.homes.CompareAndDelete(id, area)
			removed++
		}
	}
	return removed
}
