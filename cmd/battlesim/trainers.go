package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cory-johannsen/pokebattle/internal/game/trainer"
)

func newTrainersCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "trainers",
		Short: "List the loaded trainers and their creatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, v)
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()
			for _, o := range e.registry.All() {
				if g, ok := o.(*trainer.GymOwner); ok {
					fmt.Fprintf(out, "%s (gym owner, %s)\n", g.Name(), g.Town())
				} else {
					fmt.Fprintln(out, o.Name())
				}
				for _, c := range o.Pokemons() {
					fmt.Fprintf(out, "  %s [%s] %s %d/%d\n", c, c.Element(), c.GaugeName(), c.Gauge(), c.GaugeMax())
				}
			}
			return nil
		},
	}
}
