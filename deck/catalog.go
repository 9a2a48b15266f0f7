package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

var (
	ErrResourceNotFound = errors.New("card catalog resource not found")
	ErrCategoryConflict = errors.New("duplicate card id with conflicting categories")
)

type rawCard struct {
	Type         string            `json:"type"`
	ID           string            `json:"id"`
	DisplayNames map[string]string `json:"displayNames"`
}

// LoadCatalog reads a card catalog from a JSON resource file.
// The file holds a list of {type, id, displayNames} records; duplicate
// ids are collapsed provided their categories agree.
func LoadCatalog(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	return ReadCatalog(f)
}

// ReadCatalog decodes a card catalog from r
func ReadCatalog(r io.Reader) (Set, error) {
	var rawCards []rawCard
	if err := json.NewDecoder(r).Decode(&rawCards); err != nil {
		return nil, fmt.Errorf("could not decode card catalog: %w", err)
	}

	catalog := Set{}
	for _, raw := range rawCards {
		category, err := ParseCategory(raw.Type)
		if err != nil {
			return nil, fmt.Errorf("could not decode card catalog: %w", err)
		}

		card, err := NewCard(raw.ID, category, raw.DisplayNames)
		if err != nil {
			return nil, err
		}

		if existing, ok := catalog[card.ID()]; ok && existing.Category() != card.Category() {
			return nil, fmt.Errorf("%w: %s", ErrCategoryConflict, card.ID())
		}
		catalog.Add(card)
	}

	return catalog, nil
}
