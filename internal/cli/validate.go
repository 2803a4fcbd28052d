package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/flip"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a flip config or session script",
		Long: `Parse a YAML configuration (--kind config) or session script
(--kind script) and report the first problem found.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(kind, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "config", "file kind (config|script)")

	return cmd
}

func runValidate(kind, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "read file", err)
	}

	switch kind {
	case "config":
		cfg, err := flip.LoadConfig(data)
		if err != nil {
			return WrapExitError(ExitFailure, path, err)
		}
		fmt.Fprintf(w, "%s: ok", path)
		if cfg.Timing != nil {
			fmt.Fprintf(w, " (spring duration %dms)", cfg.Timing.Duration.Milliseconds())
		}
		fmt.Fprintln(w)
	case "script":
		if _, err := flip.LoadScript(data); err != nil {
			return WrapExitError(ExitFailure, path, err)
		}
		fmt.Fprintf(w, "%s: ok\n", path)
	default:
		return WrapExitError(ExitCommandError, "validate", fmt.Errorf("unknown kind %q", kind))
	}
	return nil
}
