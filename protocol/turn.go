package protocol

import (
	"errors"

	"github.com/tbettermann/deduction-engine/deck"
)

var ErrIncompleteQuestion = errors.New("a question must name one room, one subject and one tool card")

// Question groups the three cards a player asks about, one per category
type Question struct {
	Asker Player
	Cards deck.Set
}

// NewQuestion constructs a question, enforcing one card per category
func NewQuestion(asker Player, cards ...deck.Card) (Question, error) {
	if len(cards) != 3 {
		return Question{}, ErrIncompleteQuestion
	}

	seen := map[deck.Category]bool{}
	for _, c := range cards {
		if seen[c.Category()] {
			return Question{}, ErrIncompleteQuestion
		}
		seen[c.Category()] = true
	}

	return Question{Asker: asker, Cards: deck.NewSet(cards...)}, nil
}

// Answer records who responded to a question and with which cards.
// A single card means the shown card is known exactly. More than one
// card means "one of these was shown" as seen by outside observers;
// later evaluation narrows the set down. An absent answer (nil
// pointer) or an empty card set means no one could answer.
type Answer struct {
	Answerer Player
	Cards    deck.Set
}

// Turn is one observed (question, answer) pair
type Turn struct {
	Question Question
	Answer   *Answer
	Seq      int
}

// Unanswered reports whether the turn produced no shown card
func (t Turn) Unanswered() bool {
	return t.Answer == nil || t.Answer.Cards.Len() == 0
}

// Log is the append-only sequence of observed turns with dense,
// zero-based sequence numbers
type Log struct {
	turns []Turn
}

// Append records a new turn, assigning the next sequence number
func (l *Log) Append(question Question, answer *Answer) Turn {
	turn := Turn{Question: question, Answer: answer, Seq: len(l.turns)}
	l.turns = append(l.turns, turn)
	return turn
}

// Len returns the number of recorded turns
func (l *Log) Len() int {
	return len(l.turns)
}

// Turns returns a copy of the recorded turns in sequence order
func (l *Log) Turns() []Turn {
	turns := make([]Turn, len(l.turns))
	copy(turns, l.turns)
	return turns
}
