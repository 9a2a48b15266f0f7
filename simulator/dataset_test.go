package simulator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbettermann/deduction-engine/deck"
	utils "github.com/tbettermann/deduction-engine/internal"
	"github.com/tbettermann/deduction-engine/protocol"
)

var (
	anna   = protocol.Player{Position: 0, Name: "Anna", Viewpoint: true}
	ben    = protocol.Player{Position: 1, Name: "Ben"}
	chris  = protocol.Player{Position: 2, Name: "Chris"}
	daniel = protocol.Player{Position: 3, Name: "Daniel"}
)

func buildCatalog(t *testing.T, ids map[string]deck.Category) (deck.Set, map[string]deck.Card) {
	t.Helper()

	byID := map[string]deck.Card{}
	catalog := deck.Set{}
	for id, category := range ids {
		card, err := deck.NewCard(id, category, nil)
		utils.AssertNoError(t, err)
		byID[id] = card
		catalog.Add(card)
	}
	return catalog, byID
}

func nineCards(t *testing.T) (deck.Set, map[string]deck.Card) {
	t.Helper()

	return buildCatalog(t, map[string]deck.Category{
		"r1": deck.Room, "r2": deck.Room, "r3": deck.Room,
		"s1": deck.Subject, "s2": deck.Subject, "s3": deck.Subject,
		"t1": deck.Tool, "t2": deck.Tool, "t3": deck.Tool,
	})
}

func TestGenerate(t *testing.T) {
	catalog, _ := nineCards(t)
	players := protocol.Players{anna, ben, chris}

	t.Run("partitions the catalog into solution, leftovers and hands", func(t *testing.T) {
		ds, err := Generate(catalog, players, rand.New(rand.NewSource(1)))
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, ds.Solution.Len(), 3)
		for _, category := range deck.Categories() {
			utils.AssertEqual(t, len(ds.Solution.ByCategory(category)), 1)
		}

		utils.AssertEqual(t, ds.LeftOver.Len(), 0)
		utils.AssertEqual(t, ds.HandSize(), 2)

		dealt := ds.Solution.Union(ds.LeftOver)
		for _, p := range players {
			hand := ds.Hands[p]
			utils.AssertEqual(t, hand.Len(), 2)
			utils.AssertEqual(t, dealt.Union(hand).Len(), dealt.Len()+hand.Len())
			dealt = dealt.Union(hand)
		}
		assert.Equal(t, catalog.IDs(), dealt.IDs())
	})

	t.Run("leftover count follows the deal remainder", func(t *testing.T) {
		ds, err := Generate(catalog, protocol.Players{anna, ben, chris, daniel}, rand.New(rand.NewSource(1)))
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, ds.LeftOver.Len(), 2)
		utils.AssertEqual(t, ds.HandSize(), 1)
	})

	t.Run("is reproducible under the same seed", func(t *testing.T) {
		first, err := Generate(catalog, players, rand.New(rand.NewSource(7)))
		utils.AssertNoError(t, err)
		second, err := Generate(catalog, players, rand.New(rand.NewSource(7)))
		utils.AssertNoError(t, err)

		assert.Equal(t, first.Solution.IDs(), second.Solution.IDs())
		assert.Equal(t, first.LeftOver.IDs(), second.LeftOver.IDs())
		for _, p := range players {
			assert.Equal(t, first.Hands[p].IDs(), second.Hands[p].IDs())
		}
	})

	t.Run("rejects a catalog missing a whole category", func(t *testing.T) {
		incomplete, _ := buildCatalog(t, map[string]deck.Category{
			"r1": deck.Room, "s1": deck.Subject,
		})
		_, err := Generate(incomplete, players, rand.New(rand.NewSource(1)))
		utils.AssertTrue(t, errors.Is(err, ErrEmptyCategory))
	})

	t.Run("rejects a catalog too small to deal from", func(t *testing.T) {
		tiny, _ := buildCatalog(t, map[string]deck.Category{
			"r1": deck.Room, "s1": deck.Subject, "t1": deck.Tool,
		})
		_, err := Generate(tiny, players, rand.New(rand.NewSource(1)))
		utils.AssertTrue(t, errors.Is(err, ErrDealTooSmall))
	})

	t.Run("rejects a roster without a viewpoint player", func(t *testing.T) {
		_, err := Generate(catalog, protocol.Players{ben, chris}, rand.New(rand.NewSource(1)))
		utils.AssertErrored(t, err)
	})
}

func TestOwnCards(t *testing.T) {
	catalog, _ := nineCards(t)

	ds, err := Generate(catalog, protocol.Players{anna, ben, chris}, rand.New(rand.NewSource(3)))
	utils.AssertNoError(t, err)

	own, err := ds.OwnCards()
	utils.AssertNoError(t, err)
	assert.Equal(t, ds.Hands[anna].IDs(), own.IDs())
}
