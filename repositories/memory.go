package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/courtline/scoring-system/models"
)

// In-memory implementations of the storage interfaces. They back the default
// single-process deployment and the test suite; the Postgres implementations
// are a drop-in swap behind the same interfaces.

type memoryMatchRepository struct {
	mu      sync.RWMutex
	matches map[string]*models.Match
}

func NewMemoryMatchRepository() MatchRepository {
	return &memoryMatchRepository{matches: make(map[string]*models.Match)}
}

func (r *memoryMatchRepository) Create(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[match.ID] = copyMatch(match)
	return nil
}

func (r *memoryMatchRepository) GetByID(_ context.Context, id string) (*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	match, ok := r.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return copyMatch(match), nil
}

func (r *memoryMatchRepository) List(_ context.Context) ([]*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*models.Match, 0, len(r.matches))
	for _, match := range r.matches {
		matches = append(matches, copyMatch(match))
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *memoryMatchRepository) Update(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[match.ID]; !ok {
		return ErrMatchNotFound
	}
	r.matches[match.ID] = copyMatch(match)
	return nil
}

// copyMatch detaches stored records from caller-held pointers so a caller
// mutating its copy cannot bypass Update.
func copyMatch(m *models.Match) *models.Match {
	c := *m
	c.Sets = make([]models.SetRecord, len(m.Sets))
	copy(c.Sets, m.Sets)
	return &c
}

type memoryPlayerRepository struct {
	mu      sync.RWMutex
	players map[string]*models.Player
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayerRepository{players: make(map[string]*models.Player)}
}

func (r *memoryPlayerRepository) Create(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *player
	r.players[player.ID] = &c
	return nil
}

func (r *memoryPlayerRepository) GetByID(_ context.Context, id string) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	c := *player
	return &c, nil
}

func (r *memoryPlayerRepository) ListByGame(_ context.Context, gameID string) ([]*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]*models.Player, 0)
	for _, player := range r.players {
		if player.GameID != gameID {
			continue
		}
		c := *player
		players = append(players, &c)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].JerseyNumber != players[j].JerseyNumber {
			return players[i].JerseyNumber < players[j].JerseyNumber
		}
		return players[i].Name < players[j].Name
	})
	return players, nil
}

func (r *memoryPlayerRepository) Update(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[player.ID]; !ok {
		return ErrPlayerNotFound
	}
	c := *player
	r.players[player.ID] = &c
	return nil
}

func (r *memoryPlayerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; !ok {
		return ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}
