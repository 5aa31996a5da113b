package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/skyops/nightplan/core/model"
)

// Filter narrows the catalog down to the candidate pool for one session.
// Zero values leave a dimension unfiltered.
type Filter struct {
	// Search matches a substring of the target id or name, case-insensitive.
	Search string
	// Types keeps only the listed object-type tags.
	Types []string
	// MaxMagnitude drops targets fainter than this magnitude.
	MaxMagnitude float64
	// ExcludeStatuses drops targets whose capture status is listed, e.g.
	// StatusComplete to skip finished projects.
	ExcludeStatuses []model.CaptureStatus
}

func (f Filter) matches(t model.Target) bool {
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.ID), s) && !strings.Contains(strings.ToLower(t.Name), s) {
			return false
		}
	}
	if len(f.Types) > 0 {
		ok := false
		for _, typ := range f.Types {
			if t.Type == typ {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.MaxMagnitude != 0 && t.Magnitude > f.MaxMagnitude {
		return false
	}
	for _, st := range f.ExcludeStatuses {
		if t.Status() == st {
			return false
		}
	}
	return true
}

// Store provides the target catalog to the planner.
type Store interface {
	Set(model.Target) error
	Get(id string) (model.Target, bool)
	// Pool returns the filtered, de-duplicated candidate pool, sorted by
	// catalog id for reproducible planning.
	Pool(Filter) []model.Target
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]model.Target
}

// NewMemoryStore returns an empty catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]model.Target{}}
}

// Set validates and upserts a target. Duplicate ids overwrite.
func (s *MemoryStore) Set(t model.Target) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.data[t.ID] = t
	s.mu.Unlock()
	return nil
}

// Get returns the target with the given id.
func (s *MemoryStore) Get(id string) (model.Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data[id]
	return t, ok
}

// Pool implements Store.
func (s *MemoryStore) Pool(f Filter) []model.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Target, 0, len(s.data))
	for _, t := range s.data {
		if f.matches(t) {
			res = append(res, t)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
