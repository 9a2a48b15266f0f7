package simulator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbettermann/deduction-engine/deck"
	"github.com/tbettermann/deduction-engine/engine"
	"github.com/tbettermann/deduction-engine/protocol"
)

// Strategy selects how the acting player builds their next question
type Strategy int

var strategyNames = []string{"BASIC", "EVALUATION_BASED"}

const (
	Basic Strategy = iota
	EvaluationBased
)

func (s Strategy) String() string {
	return strategyNames[s]
}

// ParseStrategy maps a strategy tag to its Strategy value
func ParseStrategy(tag string) (Strategy, error) {
	for i, name := range strategyNames {
		if name == tag {
			return Strategy(i), nil
		}
	}
	return 0, errors.New("unknown question strategy: " + tag)
}

var ErrMissingEvaluation = errors.New("evaluation based question strategy requires an evaluation result")

// Simulator drives rounds of one game: it picks the active player,
// manufactures their question and resolves it into an answer against
// the ground truth. One instance per game; not safe for concurrent use.
type Simulator struct {
	dataSet DataSet
	rng     *rand.Rand
	log     zerolog.Logger
}

// Option configures a Simulator
type Option func(*Simulator)

// WithLogger injects a diagnostic sink for the viewpoint player's
// questions and answers. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Simulator) {
		s.log = log
	}
}

// WithRand fixes the randomness source, making simulated games
// reproducible under a seeded generator
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		s.rng = rng
	}
}

// New constructs a simulator over a generated data set
func New(dataSet DataSet, opts ...Option) *Simulator {
	s := &Simulator{
		dataSet: dataSet,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	dataSet.Debug(s.log)
	return s
}

// NextTurn plays one round: the active player is picked by round
// number modulo player count, their question is generated per the
// strategy and resolved into an answer. The evaluation result is only
// consulted when the viewpoint player acts under the evaluation based
// strategy; every other player falls back to their private view of
// the turn history.
func (s *Simulator) NextTurn(previous []protocol.Turn, strategy Strategy, evaluation *engine.Result) (protocol.Question, *protocol.Answer, error) {
	players := s.dataSet.Players
	active := players[len(previous)%len(players)]

	var question protocol.Question
	var err error
	if active.Viewpoint && strategy == EvaluationBased {
		if evaluation == nil {
			return protocol.Question{}, nil, ErrMissingEvaluation
		}
		question, err = s.evaluationQuestion(active, *evaluation)
	} else {
		question, err = s.basicQuestion(active, s.privateEvaluation(active, previous))
	}
	if err != nil {
		return protocol.Question{}, nil, err
	}

	answer := s.resolve(question)

	if active.Viewpoint {
		event := s.log.Trace().Int("round", len(previous)).Strs("question", question.Cards.IDs())
		if answer != nil {
			event = event.Str("answerer", answer.Answerer.Name).Strs("answer", answer.Cards.IDs())
		}
		event.Msg("viewpoint turn")
	}

	return question, answer, nil
}

// playerView is what one player can deduce on their own: the cards
// they have seen pinned to a holder, plus suspected solution cards
type playerView struct {
	held     map[protocol.Player]deck.Set
	solution deck.Set
}

// privateEvaluation replays the turn history through the two rules any
// player can apply without the shared matrix: a single card answer
// pins its holder, and an unanswered question from a player whose hand
// is fully known exposes solution cards.
func (s *Simulator) privateEvaluation(player protocol.Player, turns []protocol.Turn) playerView {
	view := playerView{
		held:     map[protocol.Player]deck.Set{},
		solution: deck.Set{},
	}
	for _, p := range s.dataSet.Players {
		view.held[p] = deck.Set{}
	}
	for _, c := range s.dataSet.Hands[player].Cards() {
		view.held[player].Add(c)
	}

	for _, turn := range turns {
		if turn.Answer != nil && turn.Answer.Cards.Len() == 1 {
			view.held[turn.Answer.Answerer].Add(turn.Answer.Cards.Cards()[0])
		}
	}

	for _, turn := range turns {
		if !turn.Unanswered() {
			continue
		}
		askerHand := view.held[turn.Question.Asker]
		if askerHand.Len() != s.dataSet.HandSize() {
			continue
		}
		for _, c := range turn.Question.Cards.Minus(s.dataSet.LeftOver, askerHand).Cards() {
			view.solution.Add(c)
		}
	}

	return view
}

// basicQuestion ranks candidates from the player's private view:
// unresolved cards first (shuffled), then their own hand, suspected
// solution cards, leftovers, and finally the full catalog as fallback.
func (s *Simulator) basicQuestion(active protocol.Player, view playerView) (protocol.Question, error) {
	known := make([]deck.Set, 0, len(view.held)+2)
	known = append(known, s.dataSet.LeftOver, view.solution)
	for _, hand := range view.held {
		known = append(known, hand)
	}
	open := s.dataSet.Catalog.Minus(known...)

	priority := concat(
		s.shuffled(open),
		view.held[active].Cards(),
		view.solution.Cards(),
		s.dataSet.LeftOver.Cards(),
		s.dataSet.Catalog.Cards(),
	)
	return questionFromPriority(active, priority)
}

// evaluationQuestion ranks candidates from the shared knowledge
// matrix: undetermined cards first (shuffled), then the asker's known
// hand, solution candidates, leftovers, other players' known cards in
// reverse turn order, and the full catalog as fallback.
func (s *Simulator) evaluationQuestion(active protocol.Player, evaluation engine.Result) (protocol.Question, error) {
	priority := concat(
		s.shuffled(evaluation.Matrix.UnclearCards()),
		evaluation.Matrix.PlayerCards(active).Cards(),
		evaluation.SolutionCards.Cards(),
		s.dataSet.LeftOver.Cards(),
		evaluation.Matrix.OtherPlayersCardsReversed(active),
		s.dataSet.Catalog.Cards(),
	)
	return questionFromPriority(active, priority)
}

// questionFromPriority picks the first card of each category from the
// ranked candidate list
func questionFromPriority(active protocol.Player, priority []deck.Card) (protocol.Question, error) {
	picked := map[deck.Category]deck.Card{}
	for _, c := range priority {
		if _, ok := picked[c.Category()]; !ok {
			picked[c.Category()] = c
		}
	}

	cards := make([]deck.Card, 0, len(picked))
	for _, category := range deck.Categories() {
		c, ok := picked[category]
		if !ok {
			return protocol.Question{}, protocol.ErrIncompleteQuestion
		}
		cards = append(cards, c)
	}
	return protocol.NewQuestion(active, cards...)
}

// resolve answers a question against the ground truth: starting just
// after the asker and proceeding in turn order, the first player
// holding any asked card shows one. The viewpoint player privately
// learns the exact card when they asked; everyone else only observes
// that some card from the question was shown, so the recorded answer
// carries the whole question set.
func (s *Simulator) resolve(question protocol.Question) *protocol.Answer {
	next, ok := s.dataSet.Players.Next(question.Asker)
	if !ok {
		return nil
	}

	for _, p := range s.dataSet.Players.SortedFrom(next) {
		if p == question.Asker {
			continue
		}
		for _, c := range question.Cards.Cards() {
			if s.dataSet.Hands[p].Contains(c) {
				shown := question.Cards.Clone()
				if question.Asker.Viewpoint {
					shown = deck.NewSet(c)
				}
				return &protocol.Answer{Answerer: p, Cards: shown}
			}
		}
	}
	return nil
}

func (s *Simulator) shuffled(cards deck.Set) []deck.Card {
	out := cards.Cards()
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func concat(lists ...[]deck.Card) []deck.Card {
	var out []deck.Card
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
