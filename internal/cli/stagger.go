package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/flip"
)

// StaggerOptions holds flags for the stagger command.
type StaggerOptions struct {
	Count int
	Step  time.Duration
	Cap   time.Duration
}

type staggerRow struct {
	Index   int     `json:"index" yaml:"index"`
	DelayMS float64 `json:"delay_ms" yaml:"delayMs"`
}

// NewStaggerCommand creates the stagger command.
func NewStaggerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StaggerOptions{}

	cmd := &cobra.Command{
		Use:   "stagger",
		Short: "Print the stagger delays of a batch of animations",
		Long: `Print the start delay of each animation in a batch of --count items.

Delays grow with the index but saturate below --cap, so long lists do not
end with a long staggered tail.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStagger(rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 10, "number of items in the batch")
	cmd.Flags().DurationVar(&opts.Step, "step", flip.DefaultStaggerDelay, "per-item stagger step")
	cmd.Flags().DurationVar(&opts.Cap, "cap", flip.DefaultStaggerCap, "upper bound of any delay")

	return cmd
}

func runStagger(rootOpts *RootOptions, opts *StaggerOptions, w io.Writer) error {
	if opts.Count < 0 {
		return WrapExitError(ExitCommandError, "stagger", fmt.Errorf("count must not be negative, got %d", opts.Count))
	}

	rows := make([]staggerRow, opts.Count)
	delays := make([]time.Duration, opts.Count)
	for i := range rows {
		delays[i] = flip.StaggerDelay(i, opts.Step, opts.Cap)
		rows[i] = staggerRow{Index: i, DelayMS: float64(delays[i]) / float64(time.Millisecond)}
	}
	if ok, err := encode(w, rootOpts.Format, rows); ok {
		return err
	}

	for i, d := range delays {
		fmt.Fprintf(w, "%3d  %v\n", i, d)
	}
	return nil
}
