package store

import (
	"errors"
	"sync"
	"time"

	"github.com/powderhq/powder/internal/snowfall"
)

// ErrNotFound is returned when no snapshot is available for a resort.
var ErrNotFound = errors.New("no forecast snapshot for resort")

// ForecastSnapshot is one completed aggregation run for a resort: the
// ordered per-day consensus plus the providers that failed during the run.
type ForecastSnapshot struct {
	FetchedAt time.Time                  `json:"fetchedAt"`
	Days      []snowfall.AggregatedDay   `json:"days"`
	Failures  []snowfall.ProviderFailure `json:"failures,omitempty"`
}

type snapshotHistory struct {
	snapshots []ForecastSnapshot
}

// MemoryStore is a concurrency-safe in-memory history of forecast snapshots
// keyed by resort slug.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]*snapshotHistory

	maxHistory int           // max snapshots per resort, <= 0 means unlimited
	maxAge     time.Duration // max snapshot age, 0 means unlimited
}

// NewMemoryStore creates a MemoryStore with optional retention limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveSnapshot appends a snapshot for a resort and enforces retention.
func (s *MemoryStore) SaveSnapshot(slug string, snapshot ForecastSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[slug]
	if !ok {
		history = &snapshotHistory{}
		s.data[slug] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.snapshots) {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// GetLatest returns the most recent snapshot for a resort.
func (s *MemoryStore) GetLatest(slug string) (ForecastSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[slug]
	if !ok || len(history.snapshots) == 0 {
		return ForecastSnapshot{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// GetRange returns the snapshots fetched between from and to (inclusive).
func (s *MemoryStore) GetRange(slug string, from, to time.Time) ([]ForecastSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[slug]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []ForecastSnapshot
	for _, snap := range history.snapshots {
		if !snap.FetchedAt.Before(from) && !snap.FetchedAt.After(to) {
			result = append(result, snap)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
