package engine

import (
	"errors"
	"fmt"

	"github.com/tbettermann/deduction-engine/deck"
	"github.com/tbettermann/deduction-engine/protocol"
)

// Cell is the tri-state knowledge about a single (player, card) pair
type Cell int

var cellNames = []string{"NOT_CLEAR", "YES", "NO"}

const (
	NotClear Cell = iota
	Yes
	No
)

func (c Cell) String() string {
	return cellNames[c]
}

var ErrContradiction = errors.New("matrix cell required to be both held and not held")

// Matrix is the knowledge grid over (player, card). Cells live in a
// dense two-dimensional array indexed by small player and card indexes
// assigned at construction; the accessors keep the pair-keyed contract.
type Matrix struct {
	players   protocol.Players
	cards     []deck.Card
	playerIdx map[protocol.Player]int
	cardIdx   map[string]int
	cells     [][]Cell
	notClear  int
}

// NewMatrix builds a matrix with every cell undetermined. Players are
// kept in turn order, cards grouped by category and sorted by id.
func NewMatrix(players protocol.Players, catalog deck.Set) *Matrix {
	sorted := players.SortedByPosition()

	var cards []deck.Card
	for _, category := range deck.Categories() {
		cards = append(cards, catalog.ByCategory(category)...)
	}

	playerIdx := make(map[protocol.Player]int, len(sorted))
	for i, p := range sorted {
		playerIdx[p] = i
	}
	cardIdx := make(map[string]int, len(cards))
	for j, c := range cards {
		cardIdx[c.ID()] = j
	}

	cells := make([][]Cell, len(sorted))
	for i := range cells {
		cells[i] = make([]Cell, len(cards))
	}

	return &Matrix{
		players:   sorted,
		cards:     cards,
		playerIdx: playerIdx,
		cardIdx:   cardIdx,
		cells:     cells,
		notClear:  len(sorted) * len(cards),
	}
}

// Get returns the cell for the given pair, NotClear for unknown keys
func (m *Matrix) Get(p protocol.Player, c deck.Card) Cell {
	i, ok := m.playerIdx[p]
	j, jok := m.cardIdx[c.ID()]
	if !ok || !jok {
		return NotClear
	}
	return m.cells[i][j]
}

// set records a fact. Writing the value a cell already has is a no-op;
// flipping a determined cell is a contradiction and signals corrupted
// input or a propagation bug.
func (m *Matrix) set(p protocol.Player, c deck.Card, value Cell) error {
	i, ok := m.playerIdx[p]
	if !ok {
		return fmt.Errorf("unknown player %q", p.Name)
	}
	j, ok := m.cardIdx[c.ID()]
	if !ok {
		return fmt.Errorf("unknown card %q", c.ID())
	}

	current := m.cells[i][j]
	if current == value {
		return nil
	}
	if current != NotClear {
		return fmt.Errorf("%w: (%s, %s) is %s, refusing %s", ErrContradiction, p.Name, c.ID(), current, value)
	}

	m.cells[i][j] = value
	m.notClear--
	return nil
}

// markHolder pins a card to one player and excludes everyone else
func (m *Matrix) markHolder(c deck.Card, holder protocol.Player) error {
	for _, p := range m.players {
		value := No
		if p == holder {
			value = Yes
		}
		if err := m.set(p, c, value); err != nil {
			return err
		}
	}
	return nil
}

// NotClearCount returns the number of undetermined cells
func (m *Matrix) NotClearCount() int {
	return m.notClear
}

// Players returns the players in turn order
func (m *Matrix) Players() protocol.Players {
	players := make(protocol.Players, len(m.players))
	copy(players, m.players)
	return players
}

// Cards returns the cards grouped by category, sorted by id
func (m *Matrix) Cards() []deck.Card {
	cards := make([]deck.Card, len(m.cards))
	copy(cards, m.cards)
	return cards
}

// PlayerCards returns the cards known to be held by the player
func (m *Matrix) PlayerCards(p protocol.Player) deck.Set {
	return m.cardsWithValue(p, Yes)
}

// NonPlayerCards returns the cards known not to be held by the player
func (m *Matrix) NonPlayerCards(p protocol.Player) deck.Set {
	return m.cardsWithValue(p, No)
}

func (m *Matrix) cardsWithValue(p protocol.Player, value Cell) deck.Set {
	result := deck.Set{}
	i, ok := m.playerIdx[p]
	if !ok {
		return result
	}
	for j, cell := range m.cells[i] {
		if cell == value {
			result.Add(m.cards[j])
		}
	}
	return result
}

// HeldCards returns every card known to be held by some player
func (m *Matrix) HeldCards() deck.Set {
	result := deck.Set{}
	for i := range m.cells {
		for j, cell := range m.cells[i] {
			if cell == Yes {
				result.Add(m.cards[j])
			}
		}
	}
	return result
}

// PlayerCardMap returns each player's known cards
func (m *Matrix) PlayerCardMap() map[protocol.Player]deck.Set {
	result := make(map[protocol.Player]deck.Set, len(m.players))
	for _, p := range m.players {
		result[p] = m.PlayerCards(p)
	}
	return result
}

// UnclearCards returns the cards with at least one undetermined cell
func (m *Matrix) UnclearCards() deck.Set {
	result := deck.Set{}
	for i := range m.cells {
		for j, cell := range m.cells[i] {
			if cell == NotClear {
				result.Add(m.cards[j])
			}
		}
	}
	return result
}

// FullyExcludedCards returns the cards no player can hold
func (m *Matrix) FullyExcludedCards() deck.Set {
	result := deck.Set{}
	for j, c := range m.cards {
		excluded := true
		for i := range m.cells {
			if m.cells[i][j] != No {
				excluded = false
				break
			}
		}
		if excluded {
			result.Add(c)
		}
	}
	return result
}

// OtherPlayersCardsReversed concatenates the known cards of every
// player other than excluded, walking the turn order backwards from
// the player right before excluded. The simulator uses this to ask
// about the most recently revealed hands first.
func (m *Matrix) OtherPlayersCardsReversed(excluded protocol.Player) []deck.Card {
	next, ok := m.players.Next(excluded)
	if !ok {
		return nil
	}

	rotated := m.players.SortedFrom(next)
	var cards []deck.Card
	for i := len(rotated) - 1; i >= 0; i-- {
		if rotated[i] == excluded {
			continue
		}
		cards = append(cards, m.PlayerCards(rotated[i]).Cards()...)
	}
	return cards
}

// Clone returns an independent snapshot of the matrix
func (m *Matrix) Clone() *Matrix {
	cells := make([][]Cell, len(m.cells))
	for i := range m.cells {
		cells[i] = make([]Cell, len(m.cells[i]))
		copy(cells[i], m.cells[i])
	}

	return &Matrix{
		players:   m.players,
		cards:     m.cards,
		playerIdx: m.playerIdx,
		cardIdx:   m.cardIdx,
		cells:     cells,
		notClear:  m.notClear,
	}
}
