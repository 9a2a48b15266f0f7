package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tbettermann/deduction-engine/game"
)

var (
	ErrUnknownGameID = errors.New("unknown game ID")
	ErrGameExists    = errors.New("game ID already registered")
)

// GameStore tracks the game sessions currently in flight
type GameStore interface {
	FindGame(gameID string) (*game.Game, error)
	AddGame(g *game.Game) error
	RemoveGame(gameID string)
	ActiveGames() []*game.Game
}

// InMemoryGameStore maps game id to session. Safe for concurrent use;
// simulation workers register and release their games through it.
type InMemoryGameStore struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewInMemoryGameStore constructs an empty InMemoryGameStore
func NewInMemoryGameStore() *InMemoryGameStore {
	return &InMemoryGameStore{
		games: map[string]*game.Game{},
	}
}

func (s *InMemoryGameStore) FindGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	return g, nil
}

func (s *InMemoryGameStore) AddGame(g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[g.ID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, g.ID)
	}
	s.games[g.ID] = g
	return nil
}

func (s *InMemoryGameStore) RemoveGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.games, gameID)
}

// ActiveGames returns a snapshot of the registered sessions
func (s *InMemoryGameStore) ActiveGames() []*game.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]*game.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	return games
}
