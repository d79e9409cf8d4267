package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process IdentityStore. It is the default backend and
// the one used in tests; durability is a deployment concern handled by the
// sqlite and postgres backends.
type MemoryStore struct {
	mu        sync.RWMutex
	byRef     map[string]Mapping         // provider + "\x00" + externalID
	byPlayer  map[string][]string        // playerKey -> refs
	providers map[string]map[string]bool // provider -> set of playerKeys
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		byRef:     make(map[string]Mapping),
		byPlayer:  make(map[string][]string),
		providers: make(map[string]map[string]bool),
	}
}

func refKey(provider, externalID string) string {
	return provider + "\x00" + externalID
}

func (s *MemoryStore) GetMapping(_ context.Context, provider, externalID string) (*Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byRef[refKey(provider, externalID)]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MemoryStore) PutMapping(_ context.Context, m Mapping) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref := refKey(m.Provider, m.ExternalID)
	if existing, ok := s.byRef[ref]; ok {
		// Append-only: never downgrade a confirmed mapping.
		if m.Confidence < existing.Confidence {
			return nil
		}
		m.CreatedAt = existing.CreatedAt
		m.Verified = m.Verified || existing.Verified
		s.byRef[ref] = m
		return nil
	}

	s.byRef[ref] = m
	s.byPlayer[m.PlayerKey] = append(s.byPlayer[m.PlayerKey], ref)
	if s.providers[m.Provider] == nil {
		s.providers[m.Provider] = make(map[string]bool)
	}
	s.providers[m.Provider][m.PlayerKey] = true
	return nil
}

func (s *MemoryStore) ListMappings(_ context.Context, playerKey string) ([]Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := s.byPlayer[playerKey]
	mappings := make([]Mapping, 0, len(refs))
	for _, ref := range refs {
		mappings = append(mappings, s.byRef[ref])
	}
	return mappings, nil
}

func (s *MemoryStore) Coverage(_ context.Context) (*CoverageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byProvider := make(map[string]int, len(s.providers))
	for prov, players := range s.providers {
		byProvider[prov] = len(players)
	}
	total := len(s.byPlayer)
	return &CoverageStats{
		TotalPlayers: total,
		ByProvider:   byProvider,
		Percentages:  coveragePercentages(total, byProvider),
	}, nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
