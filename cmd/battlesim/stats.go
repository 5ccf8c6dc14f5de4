package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/pokebattle/internal/game/battle"
	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
)

// tally counts outcomes across repeated battles.
type tally struct {
	battles    int
	challenger int
	opponent   int
	draws      int
	rounds     int
}

func (t tally) pct(n int) float64 {
	if t.battles == 0 {
		return 0
	}
	return 100 * float64(n) / float64(t.battles)
}

func newStatsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <challenger> <opponent>",
		Short: "Replay a matchup many times with fresh creatures and report win rates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("battles")
			if n < 1 {
				return fmt.Errorf("--battles must be >= 1, got %d", n)
			}
			quiet, _ := cmd.Flags().GetBool("quiet")

			e, err := setup(cmd, v)
			if err != nil {
				return err
			}
			defer e.close()

			chRoster, err := e.roster(args[0])
			if err != nil {
				return err
			}
			opRoster, err := e.roster(args[1])
			if err != nil {
				return err
			}

			// Per-battle chatter would drown the summary.
			logger := e.logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
			rules := pokemon.NewRules(e.roller, nil, e.rules.Matching)

			var bar *progressbar.ProgressBar
			if !quiet {
				bar = progressbar.NewOptions(n,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription("battles"),
					progressbar.OptionShowCount(),
				)
			}

			var t tally
			for i := 0; i < n; i++ {
				challenger, err := chRoster.Build(rules)
				if err != nil {
					return err
				}
				opponent, err := opRoster.Build(rules)
				if err != nil {
					return err
				}
				strategy := e.strategy()
				res, err := battle.New(
					battle.Side{Owner: challenger, Strategy: strategy},
					battle.Side{Owner: opponent, Strategy: strategy},
					e.cfg.Battle.MaxRounds,
					logger,
				).Run(cmd.Context())
				if err != nil {
					return err
				}
				t.battles++
				t.rounds += res.Rounds
				switch {
				case res.Draw():
					t.draws++
				case res.Winner == challenger:
					t.challenger++
				default:
					t.opponent++
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(cmd.ErrOrStderr())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s vs %s over %d battles\n", chRoster.Name, opRoster.Name, t.battles)
			fmt.Fprintf(out, "  %-12s %5d  %5.1f%%\n", chRoster.Name, t.challenger, t.pct(t.challenger))
			fmt.Fprintf(out, "  %-12s %5d  %5.1f%%\n", opRoster.Name, t.opponent, t.pct(t.opponent))
			fmt.Fprintf(out, "  %-12s %5d  %5.1f%%\n", "draws", t.draws, t.pct(t.draws))
			fmt.Fprintf(out, "  average rounds %.1f\n", float64(t.rounds)/float64(t.battles))
			return nil
		},
	}
	cmd.Flags().Int("battles", 100, "number of battles to play")
	cmd.Flags().Bool("quiet", false, "suppress the progress bar")
	return cmd
}
