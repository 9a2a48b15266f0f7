package deck

import (
	"errors"
	"fmt"
)

// Category represents the group a card belongs to
type Category int

var categoryNames = []string{"ROOM", "SUBJECT", "TOOL"}

const (
	Room Category = iota
	Subject
	Tool
)

func (c Category) String() string {
	if c < Room || c > Tool {
		return "UNKNOWN"
	}
	return categoryNames[c]
}

// ParseCategory maps a catalog tag to a Category
func ParseCategory(tag string) (Category, error) {
	for i, name := range categoryNames {
		if name == tag {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card category %q", tag)
}

// Card represents a single card in play. Identity is the id alone;
// display names are per-language labels keyed by ISO 639-1 code.
// Immutable once constructed.
type Card struct {
	id           string
	category     Category
	displayNames map[string]string
}

// NewCard constructs a card
func NewCard(id string, category Category, displayNames map[string]string) (Card, error) {
	if id == "" {
		return Card{}, errors.New("card id must not be empty")
	}
	if category < Room || category > Tool {
		return Card{}, fmt.Errorf("card %q has an invalid category", id)
	}

	names := map[string]string{}
	for lang, name := range displayNames {
		names[lang] = name
	}

	return Card{id: id, category: category, displayNames: names}, nil
}

// ID returns the card's identity
func (c Card) ID() string {
	return c.id
}

// Category returns the card's category
func (c Card) Category() Category {
	return c.category
}

func (c Card) String() string {
	return c.id
}
