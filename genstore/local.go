package genstore

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/evcache"
)

type localGenEntry struct {
	Gen       uint64
	UpdatedAt time.Time
}

// LocalGenStore keeps generations in-process.
// Optional cleanup loop to prune long-inactive entries.
type LocalGenStore struct {
	mu     sync.RWMutex
	gens   map[evcache.EventID]localGenEntry
	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
}

var _ GenStore = (*LocalGenStore)(nil)

func NewLocalGenStore(cleanupInterval, retention time.Duration) *LocalGenStore {
	s := &LocalGenStore{gens: make(map[evcache.EventID]localGenEntry)}
	if cleanupInterval > 0 && retention > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Cleanup(retention)
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *LocalGenStore) Snapshot(_ context.Context, id evcache.EventID) (uint64, error) {
	s.mu.RLock()
	e := s.gens[id]
	s.mu.RUnlock()
	return e.Gen, nil
}

func (s *LocalGenStore) Bump(_ context.Context, id evcache.EventID) (uint64, error) {
	now := time.Now()
	s.mu.Lock()
	e := s.gens[id]
	e.Gen++
	e.UpdatedAt = now
	s.gens[id] = e
	s.mu.Unlock()
	return e.Gen, nil
}

// Cleanup drops counters not bumped within retention. A pruned event reads
// as generation 0 again, so keep retention above the archive TTL.
func (s *LocalGenStore) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	for id, e := range s.gens {
		if e.UpdatedAt.Before(cutoff) {
			delete(s.gens, id)
		}
	}
	s.mu.Unlock()
}

func (s *LocalGenStore) Close(_ context.Context) error {
	if s.stopCh != nil {
		close(s.stopCh)
		s.ticker.Stop()
		s.wg.Wait()
		s.stopCh = nil
	}
	return nil
}
