package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tbettermann/deduction-engine/deck"
	"github.com/tbettermann/deduction-engine/protocol"
)

var (
	ErrMissingHand      = errors.New("the viewpoint player's own cards are missing")
	ErrCardNotInCatalog = errors.New("card does not belong to the catalog")
	ErrOwnCardLeftOver  = errors.New("a card cannot be both owned and left over")
	ErrNoConvergence    = errors.New("evaluation did not reach a fixpoint")
)

// Evaluator owns the knowledge matrix and the growing solution set.
// It is not safe for concurrent use; give each game its own instance.
type Evaluator struct {
	matrix   *Matrix
	solution deck.Set
	catalog  deck.Set
	leftOver deck.Set
	players  protocol.Players
	handSize int
	log      zerolog.Logger
}

// Result is an immutable snapshot of an evaluation: the knowledge
// matrix plus the solution cards derived so far. A solution is
// complete once SolutionCards holds three members, one per category.
type Result struct {
	Matrix        *Matrix
	SolutionCards deck.Set
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithLogger injects a diagnostic sink. The default discards
// everything; evaluation results never depend on it.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.log = log
	}
}

// New constructs an evaluator for the given configuration and builds
// the initial matrix: everything undetermined, leftover cards excluded
// for everyone, the viewpoint player's cards pinned to them.
func New(players protocol.Players, catalog, leftOver, ownCards deck.Set, opts ...Option) (*Evaluator, error) {
	if err := players.Validate(); err != nil {
		return nil, err
	}
	viewpoint, err := players.Viewpoint()
	if err != nil {
		return nil, err
	}
	if ownCards.Len() == 0 {
		return nil, ErrMissingHand
	}
	for _, c := range leftOver.Union(ownCards).Cards() {
		if !catalog.Contains(c) {
			return nil, fmt.Errorf("%w: %s", ErrCardNotInCatalog, c.ID())
		}
	}
	for _, c := range ownCards.Cards() {
		if leftOver.Contains(c) {
			return nil, fmt.Errorf("%w: %s", ErrOwnCardLeftOver, c.ID())
		}
	}

	matrix := NewMatrix(players, catalog)
	for _, p := range matrix.Players() {
		for _, c := range leftOver.Cards() {
			if err := matrix.set(p, c, No); err != nil {
				return nil, err
			}
		}
		for _, c := range ownCards.Cards() {
			value := No
			if p == viewpoint {
				value = Yes
			}
			if err := matrix.set(p, c, value); err != nil {
				return nil, err
			}
		}
	}

	e := &Evaluator{
		matrix:   matrix,
		solution: deck.Set{},
		catalog:  catalog.Clone(),
		leftOver: leftOver.Clone(),
		players:  players.SortedByPosition(),
		handSize: ownCards.Len(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// UpdateFromTurns replays the full turn history against the matrix
// and propagates every derivable inference until a fixpoint: a pass
// that neither determines a new cell nor narrows a turn's answer
// candidates ends the loop. The input turns are never mutated.
//
// Each pass applies, in order:
//  1. skipped players are excluded for the asked cards, and answers
//     narrowed to a single card pin that card to its holder
//  2. solution cards are derived three ways: unanswered questions of a
//     fully known hand, cards excluded for every player, and
//     categories with a single undetermined candidate left
//  3. hands are closed: a full hand excludes all other cards, and a
//     player with exactly handSize candidates left must hold them all
//  4. ambiguous answers drop candidates the answerer cannot hold
func (e *Evaluator) UpdateFromTurns(turns []protocol.Turn) error {
	work := copyTurns(turns)

	// the NOT_CLEAR count strictly decreases or candidate sets strictly
	// shrink on every looping pass, so this bound is never reached on
	// consistent input
	maxIterations := len(e.players)*e.catalog.Len() + 1

	for i := 0; i < maxIterations; i++ {
		changed, err := e.pass(work)
		if err != nil {
			return err
		}
		if !changed {
			e.trace(i + 1)
			return nil
		}
	}
	return ErrNoConvergence
}

// Results returns an independent snapshot of the current knowledge
func (e *Evaluator) Results() Result {
	return Result{
		Matrix:        e.matrix.Clone(),
		SolutionCards: e.solution.Clone(),
	}
}

func (e *Evaluator) pass(turns []protocol.Turn) (bool, error) {
	notClearBefore := e.matrix.NotClearCount()

	// players skipped between the asker and the answerer hold none of
	// the asked cards
	for _, turn := range turns {
		if turn.Answer == nil {
			continue
		}
		rotated := e.players.SortedFrom(turn.Question.Asker)
		for _, p := range rotated.Between(turn.Question.Asker, turn.Answer.Answerer) {
			for _, c := range turn.Question.Cards.Cards() {
				if err := e.matrix.set(p, c, No); err != nil {
					return false, err
				}
			}
		}
	}

	// an answer narrowed to exactly one card pins it to its holder
	for _, turn := range turns {
		if turn.Answer == nil || turn.Answer.Cards.Len() != 1 {
			continue
		}
		card := turn.Answer.Cards.Cards()[0]
		if err := e.matrix.markHolder(card, turn.Answer.Answerer); err != nil {
			return false, err
		}
	}

	// an unanswered question from a player whose hand is fully known
	// exposes solution cards: nobody held the asked cards, so whatever
	// is neither left over nor the asker's own must be hidden
	for _, turn := range turns {
		if !turn.Unanswered() {
			continue
		}
		askerCards := e.matrix.PlayerCards(turn.Question.Asker)
		if askerCards.Len() != e.handSize {
			continue
		}
		for _, c := range turn.Question.Cards.Minus(e.leftOver, askerCards).Cards() {
			e.solution.Add(c)
			if err := e.excludeForEveryone(c); err != nil {
				return false, err
			}
		}
	}

	// a card excluded for every player, and not left over, must be in
	// the hidden solution
	for _, c := range e.matrix.FullyExcludedCards().Minus(e.leftOver).Cards() {
		e.solution.Add(c)
	}

	// a category with exactly one undetermined candidate left resolves
	remaining := e.catalog.Minus(e.leftOver, e.matrix.HeldCards())
	for _, category := range deck.Categories() {
		group := remaining.ByCategory(category)
		if len(group) != 1 {
			continue
		}
		e.solution.Add(group[0])
		if err := e.excludeForEveryone(group[0]); err != nil {
			return false, err
		}
	}

	// a full hand excludes every other card for that player
	for _, p := range e.players {
		held := e.matrix.PlayerCards(p)
		if held.Len() != e.handSize {
			continue
		}
		for _, c := range e.catalog.Minus(held).Cards() {
			if err := e.matrix.set(p, c, No); err != nil {
				return false, err
			}
		}
	}

	// when exactly handSize candidates remain for a player, they must
	// all be held
	for _, p := range e.players {
		excluded := e.matrix.NonPlayerCards(p)
		if e.catalog.Len()-excluded.Len() != e.handSize {
			continue
		}
		for _, c := range e.catalog.Minus(excluded).Cards() {
			if err := e.matrix.set(p, c, Yes); err != nil {
				return false, err
			}
		}
	}

	// drop answer candidates the answering player cannot hold
	turnsChanged := false
	for i := range turns {
		if turns[i].Answer == nil {
			continue
		}
		excluded := e.matrix.NonPlayerCards(turns[i].Answer.Answerer)
		narrowed := turns[i].Answer.Cards.Minus(excluded)
		if narrowed.Len() != turns[i].Answer.Cards.Len() {
			turns[i].Answer.Cards = narrowed
			turnsChanged = true
		}
	}

	return turnsChanged || e.matrix.NotClearCount() != notClearBefore, nil
}

func (e *Evaluator) excludeForEveryone(c deck.Card) error {
	for _, p := range e.players {
		if err := e.matrix.set(p, c, No); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) trace(iterations int) {
	if e.log.GetLevel() > zerolog.TraceLevel {
		return
	}
	e.log.Trace().
		Int("iterations", iterations).
		Int("not_clear", e.matrix.NotClearCount()).
		Strs("solution", e.solution.IDs()).
		Msg("fixpoint reached\n" + buildMatrixText(e.matrix, false, "cards"))
}

func copyTurns(turns []protocol.Turn) []protocol.Turn {
	work := make([]protocol.Turn, len(turns))
	copy(work, turns)
	for i := range work {
		if work[i].Answer == nil {
			continue
		}
		work[i].Answer = &protocol.Answer{
			Answerer: work[i].Answer.Answerer,
			Cards:    work[i].Answer.Cards.Clone(),
		}
	}
	return work
}
