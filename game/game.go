package game

import (
	uuid "github.com/satori/go.uuid"

	"github.com/tbettermann/deduction-engine/deck"
	"github.com/tbettermann/deduction-engine/engine"
	"github.com/tbettermann/deduction-engine/protocol"
)

// NewID generates a unique game session identifier
func NewID() string {
	return uuid.NewV4().String()
}

// Game binds the static configuration of one deduction game to its
// append-only turn log. It retains no evaluation state: Evaluate
// replays the full history through a fresh engine every call, so a
// session can be dropped and rebuilt from its log at any point.
type Game struct {
	ID       string
	Name     string
	Players  protocol.Players
	Catalog  deck.Set
	LeftOver deck.Set
	OwnCards deck.Set

	log  protocol.Log
	opts []engine.Option
}

// New constructs a game session. The roster must contain exactly one
// viewpoint player; engine options (such as a diagnostic logger) are
// handed to every evaluator the session creates.
func New(name string, players protocol.Players, catalog, leftOver, ownCards deck.Set, opts ...engine.Option) (*Game, error) {
	if err := players.Validate(); err != nil {
		return nil, err
	}

	return &Game{
		ID:       NewID(),
		Name:     name,
		Players:  players.SortedByPosition(),
		Catalog:  catalog.Clone(),
		LeftOver: leftOver.Clone(),
		OwnCards: ownCards.Clone(),
		opts:     opts,
	}, nil
}

// AddTurn appends an observed turn, assigning the next sequence number
func (g *Game) AddTurn(question protocol.Question, answer *protocol.Answer) protocol.Turn {
	return g.log.Append(question, answer)
}

// Turns returns a copy of the turn history in sequence order
func (g *Game) Turns() []protocol.Turn {
	return g.log.Turns()
}

// Evaluate builds a fresh deduction engine from the session
// configuration, replays the whole turn log and returns the resulting
// knowledge snapshot.
func (g *Game) Evaluate() (engine.Result, error) {
	e, err := engine.New(g.Players, g.Catalog, g.LeftOver, g.OwnCards, g.opts...)
	if err != nil {
		return engine.Result{}, err
	}
	if err := e.UpdateFromTurns(g.Turns()); err != nil {
		return engine.Result{}, err
	}
	return e.Results(), nil
}
