package protocol

import (
	"errors"
	"sort"
)

var (
	ErrNoPlayers         = errors.New("game has no players")
	ErrNoViewpointPlayer = errors.New("exactly one player must be the viewpoint player")
	ErrDuplicatePosition = errors.New("player positions must be unique")
)

// Player is a participant in a game. The viewpoint player is the one
// whose hand the deduction engine knows.
type Player struct {
	Position  int
	Name      string
	Viewpoint bool
}

// Players is a collection of participants. Turn order is the ascending
// order of position, wrapping circularly.
type Players []Player

// Validate checks the roster invariants: at least one player, unique
// positions, and exactly one viewpoint player.
func (ps Players) Validate() error {
	if len(ps) == 0 {
		return ErrNoPlayers
	}

	positions := map[int]bool{}
	for _, p := range ps {
		if positions[p.Position] {
			return ErrDuplicatePosition
		}
		positions[p.Position] = true
	}

	_, err := ps.Viewpoint()
	return err
}

// Viewpoint returns the single player marked as the viewpoint player
func (ps Players) Viewpoint() (Player, error) {
	var viewpoint Player
	count := 0
	for _, p := range ps {
		if p.Viewpoint {
			viewpoint = p
			count++
		}
	}
	if count != 1 {
		return Player{}, ErrNoViewpointPlayer
	}
	return viewpoint, nil
}

// SortedByPosition returns a copy of the players in turn order
func (ps Players) SortedByPosition() Players {
	sorted := make(Players, len(ps))
	copy(sorted, ps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return sorted
}

// SortedFrom returns the players in turn order rotated so that first
// leads. If first is not in the collection the plain turn order is
// returned.
func (ps Players) SortedFrom(first Player) Players {
	sorted := ps.SortedByPosition()
	for i, p := range sorted {
		if p == first {
			return append(sorted[i:], sorted[:i]...)
		}
	}
	return sorted
}

// Next returns the player whose turn follows p, wrapping around
func (ps Players) Next(p Player) (Player, bool) {
	sorted := ps.SortedByPosition()
	if len(sorted) == 0 {
		return Player{}, false
	}
	if len(sorted) == 1 {
		return sorted[0], true
	}
	for i, candidate := range sorted {
		if candidate == p {
			if i == len(sorted)-1 {
				return sorted[0], true
			}
			return sorted[i+1], true
		}
	}
	return Player{}, false
}

// Between returns the players strictly between first and second in the
// receiver's order. Callers rotate the collection first when circular
// in-between semantics are needed.
func (ps Players) Between(first, second Player) Players {
	firstIdx, secondIdx := -1, -1
	for i, p := range ps {
		if p == first {
			firstIdx = i
		}
		if p == second {
			secondIdx = i
		}
	}
	if firstIdx == -1 || secondIdx == -1 || firstIdx+1 > secondIdx {
		return Players{}
	}

	between := make(Players, secondIdx-firstIdx-1)
	copy(between, ps[firstIdx+1:secondIdx])
	return between
}
