package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tbettermann/deduction-engine/deck"
	"github.com/tbettermann/deduction-engine/engine"
	"github.com/tbettermann/deduction-engine/game"
	"github.com/tbettermann/deduction-engine/protocol"
	"github.com/tbettermann/deduction-engine/simulator"
	"github.com/tbettermann/deduction-engine/store"
)

type simulateOptions struct {
	games      int
	maxRounds  int
	workers    int
	seed       int64
	strategy   string
	compare    bool
	showMatrix bool
}

// gameOutcome is one finished (or capped) game as seen by the driver
type gameOutcome struct {
	turns  int
	solved bool
}

func newSimulateCommand(cfg *config, log zerolog.Logger) *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play randomized games end to end and report deduction statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cfg, opts, log)
		},
	}

	cmd.Flags().IntVar(&opts.games, "games", 10, "number of games to simulate")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 100, "round cap per game")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "concurrent games")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "randomness seed, 0 picks one from the clock")
	cmd.Flags().StringVar(&opts.strategy, "strategy", simulator.EvaluationBased.String(), "question strategy (BASIC|EVALUATION_BASED)")
	cmd.Flags().BoolVar(&opts.compare, "compare", false, "run both strategies over the same deals and report side by side")
	cmd.Flags().BoolVar(&opts.showMatrix, "show-matrix", false, "render the viewpoint matrix of the first game")

	return cmd
}

func runSimulate(cfg *config, opts simulateOptions, log zerolog.Logger) error {
	catalog, err := deck.LoadCatalog(cfg.CardsPath)
	if err != nil {
		return err
	}

	strategies := []simulator.Strategy{}
	if opts.compare {
		strategies = append(strategies, simulator.Basic, simulator.EvaluationBased)
	} else {
		strategy, err := simulator.ParseStrategy(opts.strategy)
		if err != nil {
			return err
		}
		strategies = append(strategies, strategy)
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// a game's deal depends only on its seed, so a comparison run plays
	// both strategies against identical ground truths
	for _, strategy := range strategies {
		log.Info().
			Int("games", opts.games).
			Int64("seed", seed).
			Stringer("strategy", strategy).
			Msg("starting simulation")

		sessions := store.NewInMemoryGameStore()
		outcomes := make([]gameOutcome, opts.games)
		seeds := make(chan int, opts.games)
		for i := 0; i < opts.games; i++ {
			seeds <- i
		}
		close(seeds)

		var wg sync.WaitGroup
		for w := 0; w < opts.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range seeds {
					gameOpts := opts
					gameOpts.showMatrix = opts.showMatrix && i == 0
					outcome, err := playGame(catalog, strategy, seed+int64(i), gameOpts, sessions, log)
					if err != nil {
						log.Error().Err(err).Int("game", i).Msg("game aborted")
						continue
					}
					outcomes[i] = outcome
				}
			}()
		}
		wg.Wait()

		if inFlight := len(sessions.ActiveGames()); inFlight > 0 {
			log.Warn().Int("count", inFlight).Msg("sessions left in store after run")
		}

		reportOutcomes(log, strategy, outcomes)
	}
	return nil
}

// playGame drives one game: evaluate, stop on a full solution, else
// simulate the next turn, bounded by the round cap.
func playGame(catalog deck.Set, strategy simulator.Strategy, seed int64, opts simulateOptions, sessions store.GameStore, log zerolog.Logger) (gameOutcome, error) {
	rng := rand.New(rand.NewSource(seed))
	players := protocol.Players{
		{Position: 0, Name: "Anna", Viewpoint: true},
		{Position: 1, Name: "Ben"},
		{Position: 2, Name: "Chris"},
		{Position: 3, Name: "Daniel"},
	}

	dataSet, err := simulator.Generate(catalog, players, rng)
	if err != nil {
		return gameOutcome{}, err
	}
	own, err := dataSet.OwnCards()
	if err != nil {
		return gameOutcome{}, err
	}

	g, err := game.New(fmt.Sprintf("simulated game %d", seed), players, catalog, dataSet.LeftOver, own, engine.WithLogger(log))
	if err != nil {
		return gameOutcome{}, err
	}
	if err := sessions.AddGame(g); err != nil {
		return gameOutcome{}, err
	}
	defer sessions.RemoveGame(g.ID)

	sim := simulator.New(dataSet, simulator.WithRand(rng), simulator.WithLogger(log))

	for round := 0; round < opts.maxRounds; round++ {
		result, err := g.Evaluate()
		if err != nil {
			return gameOutcome{}, err
		}

		if result.SolutionCards.Len() == 3 {
			log.Debug().
				Strs("solution", result.SolutionCards.IDs()).
				Strs("truth", dataSet.Solution.IDs()).
				Int("turns", len(g.Turns())).
				Msg("game solved")
			if opts.showMatrix {
				engine.Render(os.Stdout, result.Matrix, g.Name)
			}
			return gameOutcome{turns: len(g.Turns()), solved: true}, nil
		}

		q, a, err := sim.NextTurn(g.Turns(), strategy, &result)
		if err != nil {
			return gameOutcome{}, err
		}
		g.AddTurn(q, a)
	}

	return gameOutcome{turns: opts.maxRounds, solved: false}, nil
}

func reportOutcomes(log zerolog.Logger, strategy simulator.Strategy, outcomes []gameOutcome) {
	turns := []int{}
	solved := 0
	for _, o := range outcomes {
		if o.solved {
			solved++
			turns = append(turns, o.turns)
		}
	}

	event := log.Info().
		Stringer("strategy", strategy).
		Int("games", len(outcomes)).
		Int("solved", solved)
	if len(turns) > 0 {
		sort.Ints(turns)
		sum := 0
		for _, n := range turns {
			sum += n
		}
		event = event.
			Float64("avgTurns", float64(sum)/float64(len(turns))).
			Int("medianTurns", turns[len(turns)/2]).
			Int("minTurns", turns[0]).
			Int("maxTurns", turns[len(turns)-1])
	}
	event.Msg("simulation finished")
}
