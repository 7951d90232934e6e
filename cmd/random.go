package cmd

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/shipengqi/reginv/pkg/random"
)

type randomOptions struct {
	min   int
	max   int
	count int
	seed  int64
}

func randomCommand() *cobra.Command {
	o := &randomOptions{}
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate random numbers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := o.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			return random.Run(cmd.OutOrStdout(), rand.New(rand.NewSource(seed)), o.min, o.max, o.count)
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().IntVar(&o.min, "min", random.DefaultMin, "Minimum value.")
	cmd.Flags().IntVar(&o.max, "max", random.DefaultMax, "Maximum value.")
	cmd.Flags().IntVar(&o.count, "count", random.DefaultCount, "Number of random numbers to generate.")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "Seed for repeatable output, 0 picks one from the clock.")
	return cmd
}
