package protocol

import (
	"errors"
	"testing"

	"github.com/tbettermann/deduction-engine/deck"
	utils "github.com/tbettermann/deduction-engine/internal"
)

func testCard(t *testing.T, id string, category deck.Category) deck.Card {
	t.Helper()
	card, err := deck.NewCard(id, category, nil)
	utils.AssertNoError(t, err)
	return card
}

func TestNewQuestion(t *testing.T) {
	room := testCard(t, "kitchen", deck.Room)
	subject := testCard(t, "plum", deck.Subject)
	tool := testCard(t, "rope", deck.Tool)

	t.Run("accepts one card per category", func(t *testing.T) {
		q, err := NewQuestion(anna, room, subject, tool)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, q.Asker, anna)
		utils.AssertEqual(t, q.Cards.Len(), 3)
	})

	t.Run("rejects fewer than three cards", func(t *testing.T) {
		_, err := NewQuestion(anna, room, subject)
		utils.AssertTrue(t, errors.Is(err, ErrIncompleteQuestion))
	})

	t.Run("rejects duplicate categories", func(t *testing.T) {
		library := testCard(t, "library", deck.Room)
		_, err := NewQuestion(anna, room, library, tool)
		utils.AssertTrue(t, errors.Is(err, ErrIncompleteQuestion))
	})
}

func TestTurnUnanswered(t *testing.T) {
	room := testCard(t, "kitchen", deck.Room)
	subject := testCard(t, "plum", deck.Subject)
	tool := testCard(t, "rope", deck.Tool)

	q, err := NewQuestion(anna, room, subject, tool)
	utils.AssertNoError(t, err)

	utils.AssertTrue(t, Turn{Question: q}.Unanswered())
	utils.AssertTrue(t, Turn{Question: q, Answer: &Answer{Answerer: ben, Cards: deck.Set{}}}.Unanswered())
	utils.AssertEqual(t,
		Turn{Question: q, Answer: &Answer{Answerer: ben, Cards: deck.NewSet(tool)}}.Unanswered(),
		false)
}

func TestLog(t *testing.T) {
	room := testCard(t, "kitchen", deck.Room)
	subject := testCard(t, "plum", deck.Subject)
	tool := testCard(t, "rope", deck.Tool)

	q, err := NewQuestion(anna, room, subject, tool)
	utils.AssertNoError(t, err)

	var log Log
	first := log.Append(q, nil)
	second := log.Append(q, &Answer{Answerer: ben, Cards: deck.NewSet(tool)})

	t.Run("sequence numbers are dense and zero-based", func(t *testing.T) {
		utils.AssertEqual(t, first.Seq, 0)
		utils.AssertEqual(t, second.Seq, 1)
		utils.AssertEqual(t, log.Len(), 2)
	})

	t.Run("turns returns an independent copy", func(t *testing.T) {
		turns := log.Turns()
		turns[0] = Turn{}
		utils.AssertEqual(t, log.Turns()[0].Seq, 0)
	})
}
