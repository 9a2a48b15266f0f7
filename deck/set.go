package deck

import "sort"

// Set is an unordered collection of cards keyed by card id
type Set map[string]Card

// NewSet constructs a set from the given cards
func NewSet(cards ...Card) Set {
	s := Set{}
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Add inserts a card, replacing any card with the same id
func (s Set) Add(c Card) {
	s[c.ID()] = c
}

// Contains reports whether a card with the same id is in the set
func (s Set) Contains(c Card) bool {
	_, ok := s[c.ID()]
	return ok
}

// ContainsID reports whether a card with the given id is in the set
func (s Set) ContainsID(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of cards in the set
func (s Set) Len() int {
	return len(s)
}

// Cards returns the cards sorted by id
func (s Set) Cards() []Card {
	cards := make([]Card, 0, len(s))
	for _, c := range s {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID() < cards[j].ID() })
	return cards
}

// IDs returns the card ids sorted lexicographically
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the set
func (s Set) Clone() Set {
	clone := make(Set, len(s))
	for id, c := range s {
		clone[id] = c
	}
	return clone
}

// Minus returns the cards in s that are not in other
func (s Set) Minus(others ...Set) Set {
	result := Set{}
outer:
	for id, c := range s {
		for _, other := range others {
			if other.ContainsID(id) {
				continue outer
			}
		}
		result[id] = c
	}
	return result
}

// Union returns the cards present in s or in any of the others
func (s Set) Union(others ...Set) Set {
	result := s.Clone()
	for _, other := range others {
		for id, c := range other {
			result[id] = c
		}
	}
	return result
}

// ByCategory returns the cards of the given category sorted by id
func (s Set) ByCategory(category Category) []Card {
	var cards []Card
	for _, c := range s {
		if c.Category() == category {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID() < cards[j].ID() })
	return cards
}

// Categories lists every category in ascending order
func Categories() []Category {
	return []Category{Room, Subject, Tool}
}
