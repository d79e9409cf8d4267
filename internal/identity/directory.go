package identity

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gridironlabs/consensus/internal/model"
)

// Directory is the in-memory index of canonical player identities that the
// resolver matches against. It is safe for concurrent use.
type Directory struct {
	mu            sync.RWMutex
	byKey         map[string]model.PlayerIdentity
	byNameTeamPos map[string]string   // normName|team|pos -> key
	byNamePos     map[string][]string // normName|pos -> keys
	byTeamPos     map[string][]string // team|pos -> keys
	byDefense     map[string]string   // team -> key
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		byKey:         make(map[string]model.PlayerIdentity),
		byNameTeamPos: make(map[string]string),
		byNamePos:     make(map[string][]string),
		byTeamPos:     make(map[string][]string),
		byDefense:     make(map[string]string),
	}
}

func indexKey(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "|" + p
	}
	return out
}

// Add registers a canonical identity and returns its key, minting one when
// the identity arrives without a key.
func (d *Directory) Add(p model.PlayerIdentity) string {
	if p.Key == "" {
		p.Key = uuid.NewString()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	norm := NormalizeName(p.Name)
	pos := string(p.Position)

	d.byKey[p.Key] = p
	d.byNameTeamPos[indexKey(norm, p.Team, pos)] = p.Key
	d.byNamePos[indexKey(norm, pos)] = append(d.byNamePos[indexKey(norm, pos)], p.Key)
	d.byTeamPos[indexKey(p.Team, pos)] = append(d.byTeamPos[indexKey(p.Team, pos)], p.Key)
	if p.Position.IsTeamEntity() {
		d.byDefense[p.Team] = p.Key
	}
	return p.Key
}

// Get returns the identity for a canonical key.
func (d *Directory) Get(key string) (model.PlayerIdentity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byKey[key]
	return p, ok
}

// LookupExact finds the single identity matching a normalized name, team, and
// position.
func (d *Directory) LookupExact(normName, team string, pos model.Position) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	key, ok := d.byNameTeamPos[indexKey(normName, team, string(pos))]
	return key, ok
}

// LookupNamePos finds identities matching a normalized name and position
// regardless of team. Used as the fallback when a provider's team data is
// stale after a trade.
func (d *Directory) LookupNamePos(normName string, pos model.Position) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.byNamePos[indexKey(normName, string(pos))]...)
}

// CandidatesByTeamPos returns the identities on a team at a position, the
// candidate pool for fuzzy matching.
func (d *Directory) CandidatesByTeamPos(team string, pos model.Position) []model.PlayerIdentity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := d.byTeamPos[indexKey(team, string(pos))]
	out := make([]model.PlayerIdentity, 0, len(keys))
	for _, k := range keys {
		out = append(out, d.byKey[k])
	}
	return out
}

// DefenseKey returns the canonical key for a team's defense entity.
func (d *Directory) DefenseKey(team string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	key, ok := d.byDefense[team]
	return key, ok
}

// Len reports the number of identities in the directory.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byKey)
}

// Keys returns all canonical keys in sorted order.
func (d *Directory) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.byKey))
	for k := range d.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
