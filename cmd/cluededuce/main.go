package main

import (
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type config struct {
	CardsPath string `env:"CARDS_PATH,default=data/cards.json"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	Locale    string `env:"LOCALE,default=en"`
}

func newRootCommand(cfg config, log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cluededuce",
		Short:         "Deduction engine and simulator for a Cluedo-style mystery game",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfg.CardsPath, "cards", cfg.CardsPath, "path to the card catalog")

	cmd.AddCommand(newSimulateCommand(&cfg, log))
	cmd.AddCommand(newCardsCommand(&cfg))

	return cmd
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := envdecode.Decode(&cfg); err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("could not read configuration")
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	}

	if err := newRootCommand(cfg, log).Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
