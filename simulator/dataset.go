package simulator

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/tbettermann/deduction-engine/deck"
	"github.com/tbettermann/deduction-engine/protocol"
)

var (
	ErrEmptyCategory = errors.New("catalog has no card in a required category")
	ErrDealTooSmall  = errors.New("not enough cards to deal every player a hand")
)

// DataSet is the ground truth of one simulated game: the hidden
// solution, the publicly excluded leftover cards and every player's
// hand. It is generated once per game and never modified; the
// deduction engine only ever sees the viewpoint player's own hand and
// the leftover set.
type DataSet struct {
	Players  protocol.Players
	Catalog  deck.Set
	Solution deck.Set
	LeftOver deck.Set
	Hands    map[protocol.Player]deck.Set
}

// Generate deals a random data set from the catalog: one solution card
// per category chosen uniformly at random, leftover count
// (cards−3) mod players, and the remaining cards split evenly across
// the players in position order.
func Generate(catalog deck.Set, players protocol.Players, rng *rand.Rand) (DataSet, error) {
	if err := players.Validate(); err != nil {
		return DataSet{}, err
	}

	solution := deck.Set{}
	for _, category := range deck.Categories() {
		candidates := catalog.ByCategory(category)
		if len(candidates) == 0 {
			return DataSet{}, fmt.Errorf("%w: %s", ErrEmptyCategory, category)
		}
		solution.Add(candidates[rng.Intn(len(candidates))])
	}

	remaining := catalog.Minus(solution).Cards()
	leftOverCount := (catalog.Len() - 3) % len(players)
	handSize := (catalog.Len() - 3 - leftOverCount) / len(players)
	if handSize == 0 {
		return DataSet{}, ErrDealTooSmall
	}

	leftOver := deck.NewSet(remaining[:leftOverCount]...)
	remaining = remaining[leftOverCount:]

	hands := map[protocol.Player]deck.Set{}
	for i, p := range players.SortedByPosition() {
		hands[p] = deck.NewSet(remaining[i*handSize : (i+1)*handSize]...)
	}

	return DataSet{
		Players:  players.SortedByPosition(),
		Catalog:  catalog.Clone(),
		Solution: solution,
		LeftOver: leftOver,
		Hands:    hands,
	}, nil
}

// OwnCards returns the viewpoint player's hand
func (d DataSet) OwnCards() (deck.Set, error) {
	viewpoint, err := d.Players.Viewpoint()
	if err != nil {
		return nil, err
	}
	hand, ok := d.Hands[viewpoint]
	if !ok {
		return nil, protocol.ErrNoViewpointPlayer
	}
	return hand, nil
}

// HandSize returns the per-player hand size; hands are always even
func (d DataSet) HandSize() int {
	for _, hand := range d.Hands {
		return hand.Len()
	}
	return 0
}

// Debug writes the hidden ground truth to the diagnostic sink
func (d DataSet) Debug(log zerolog.Logger) {
	log.Debug().
		Strs("solution", d.Solution.IDs()).
		Strs("leftOver", d.LeftOver.IDs()).
		Msg("data set")
	for _, p := range d.Players {
		log.Debug().
			Str("player", p.Name).
			Strs("hand", d.Hands[p].IDs()).
			Msg("hand")
	}
}
