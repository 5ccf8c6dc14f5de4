package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cory-johannsen/pokebattle/internal/game/battle"
	"github.com/cory-johannsen/pokebattle/internal/game/trainer"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run <challenger> <opponent>",
		Short: "Run one battle and print its narrative",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, v)
			if err != nil {
				return err
			}
			defer e.close()

			challenger, err := e.owner(args[0])
			if err != nil {
				return err
			}
			opponent, err := e.owner(args[1])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			strategy := e.strategy()
			b := battle.New(
				battle.Side{Owner: challenger, Strategy: strategy},
				battle.Side{Owner: opponent, Strategy: strategy},
				e.cfg.Battle.MaxRounds,
				e.logger,
			)
			res, runErr := b.Run(ctx)

			out := cmd.OutOrStdout()
			for _, ev := range res.Events {
				fmt.Fprintf(out, "[round %d] %s\n", ev.Round, ev.Narrative)
			}
			switch {
			case runErr != nil:
				fmt.Fprintln(out, "Battle aborted.")
			case res.Draw():
				fmt.Fprintf(out, "Draw after %d rounds.\n", res.Rounds)
			default:
				fmt.Fprintf(out, "%s wins after %d rounds.\n", res.Winner.Name(), res.Rounds)
			}
			for _, o := range []trainer.Owner{challenger, opponent} {
				for _, c := range o.Pokemons() {
					fmt.Fprintf(out, "  %s: %s\n", o.Name(), c)
				}
			}
			return runErr
		},
	}
}
