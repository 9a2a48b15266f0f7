package simulator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbettermann/deduction-engine/deck"
	"github.com/tbettermann/deduction-engine/engine"
	utils "github.com/tbettermann/deduction-engine/internal"
	"github.com/tbettermann/deduction-engine/protocol"
)

// fixtureDataSet pins a fully known deal: anna (the viewpoint) holds
// s1, ben t1, chris s2, daniel r1, with r2/t2 left over and r3/s3/t3
// as the hidden solution.
func fixtureDataSet(t *testing.T) (DataSet, map[string]deck.Card) {
	t.Helper()

	catalog, cards := nineCards(t)
	return DataSet{
		Players:  protocol.Players{anna, ben, chris, daniel},
		Catalog:  catalog,
		Solution: deck.NewSet(cards["r3"], cards["s3"], cards["t3"]),
		LeftOver: deck.NewSet(cards["r2"], cards["t2"]),
		Hands: map[protocol.Player]deck.Set{
			anna:   deck.NewSet(cards["s1"]),
			ben:    deck.NewSet(cards["t1"]),
			chris:  deck.NewSet(cards["s2"]),
			daniel: deck.NewSet(cards["r1"]),
		},
	}, cards
}

func fixtureSimulator(t *testing.T) (*Simulator, map[string]deck.Card) {
	t.Helper()

	ds, cards := fixtureDataSet(t)
	return New(ds, WithRand(rand.New(rand.NewSource(1)))), cards
}

func mustQuestion(t *testing.T, asker protocol.Player, cards ...deck.Card) protocol.Question {
	t.Helper()

	q, err := protocol.NewQuestion(asker, cards...)
	utils.AssertNoError(t, err)
	return q
}

func TestResolve(t *testing.T) {
	t.Run("the viewpoint asker learns the exact card", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		answer := s.resolve(mustQuestion(t, anna, cards["r1"], cards["s2"], cards["t1"]))
		utils.AssertTrue(t, answer != nil)
		utils.AssertEqual(t, answer.Answerer, ben)
		assert.Equal(t, []string{"t1"}, answer.Cards.IDs())
	})

	t.Run("other askers see the whole question as the answer", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		answer := s.resolve(mustQuestion(t, ben, cards["r1"], cards["s1"], cards["t2"]))
		utils.AssertTrue(t, answer != nil)
		utils.AssertEqual(t, answer.Answerer, daniel)
		assert.Equal(t, []string{"r1", "s1", "t2"}, answer.Cards.IDs())
	})

	t.Run("the first holder in turn order after the asker answers", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		answer := s.resolve(mustQuestion(t, chris, cards["r1"], cards["s1"], cards["t1"]))
		utils.AssertTrue(t, answer != nil)
		utils.AssertEqual(t, answer.Answerer, daniel)
	})

	t.Run("nobody answers when no player holds an asked card", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		answer := s.resolve(mustQuestion(t, ben, cards["r2"], cards["s3"], cards["t2"]))
		utils.AssertTrue(t, answer == nil)
	})
}

func TestNextTurn(t *testing.T) {
	t.Run("the active player follows the round number", func(t *testing.T) {
		s, _ := fixtureSimulator(t)

		previous := []protocol.Turn{}
		for _, expected := range []protocol.Player{anna, ben, chris, daniel, anna} {
			q, a, err := s.NextTurn(previous, Basic, nil)
			utils.AssertNoError(t, err)
			utils.AssertEqual(t, q.Asker, expected)
			previous = append(previous, protocol.Turn{Question: q, Answer: a, Seq: len(previous)})
		}
	})

	t.Run("a basic question asks about unresolved cards first", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		q, _, err := s.NextTurn(nil, Basic, nil)
		utils.AssertNoError(t, err)

		open := s.dataSet.Catalog.Minus(s.dataSet.LeftOver, deck.NewSet(cards["s1"]))
		utils.AssertEqual(t, q.Cards.Len(), 3)
		for _, c := range q.Cards.Cards() {
			utils.AssertTrue(t, open.Contains(c))
		}
	})

	t.Run("a private evaluation folds in earlier observations", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		// ben already showed t1, so anna's next basic question must
		// not treat it as unresolved
		shown := []protocol.Turn{
			{
				Question: mustQuestion(t, anna, cards["r1"], cards["s2"], cards["t1"]),
				Answer:   &protocol.Answer{Answerer: ben, Cards: deck.NewSet(cards["t1"])},
			},
			{Question: mustQuestion(t, ben, cards["r2"], cards["s3"], cards["t2"])},
			{Question: mustQuestion(t, chris, cards["r2"], cards["s3"], cards["t2"])},
			{Question: mustQuestion(t, daniel, cards["r2"], cards["s3"], cards["t2"])},
		}

		q, _, err := s.NextTurn(shown, Basic, nil)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, q.Asker, anna)
		utils.AssertTrue(t, !q.Cards.ContainsID("t1"))
	})

	t.Run("the evaluation based strategy requires a result on the viewpoint turn", func(t *testing.T) {
		s, _ := fixtureSimulator(t)

		_, _, err := s.NextTurn(nil, EvaluationBased, nil)
		utils.AssertTrue(t, errors.Is(err, ErrMissingEvaluation))
	})

	t.Run("other players never consult the shared evaluation", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		previous := []protocol.Turn{{Question: mustQuestion(t, anna, cards["r1"], cards["s2"], cards["t1"])}}
		q, _, err := s.NextTurn(previous, EvaluationBased, nil)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, q.Asker, ben)
	})

	t.Run("an evaluation based question asks about undetermined cards first", func(t *testing.T) {
		s, cards := fixtureSimulator(t)

		e, err := engine.New(s.dataSet.Players, s.dataSet.Catalog, s.dataSet.LeftOver, deck.NewSet(cards["s1"]))
		utils.AssertNoError(t, err)
		result := e.Results()

		q, _, err := s.NextTurn(nil, EvaluationBased, &result)
		utils.AssertNoError(t, err)

		unclear := result.Matrix.UnclearCards()
		for _, c := range q.Cards.Cards() {
			utils.AssertTrue(t, unclear.Contains(c))
		}
	})
}

func TestQuestionFromPriority(t *testing.T) {
	_, cards := nineCards(t)

	t.Run("picks the first card of each category", func(t *testing.T) {
		q, err := questionFromPriority(anna, []deck.Card{
			cards["t2"], cards["r1"], cards["t1"], cards["s3"], cards["r2"], cards["s1"],
		})
		utils.AssertNoError(t, err)
		assert.Equal(t, []string{"r1", "s3", "t2"}, q.Cards.IDs())
	})

	t.Run("fails when a category is missing", func(t *testing.T) {
		_, err := questionFromPriority(anna, []deck.Card{cards["r1"], cards["s1"]})
		utils.AssertTrue(t, errors.Is(err, protocol.ErrIncompleteQuestion))
	})
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("EVALUATION_BASED")
	utils.AssertNoError(t, err)
	utils.AssertEqual(t, s, EvaluationBased)

	_, err = ParseStrategy("GREEDY")
	utils.AssertErrored(t, err)
}
