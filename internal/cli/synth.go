package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/flip"
)

// SynthOptions holds the spring parameters of the synth command.
type SynthOptions struct {
	Spring flip.Spring
	// File optionally names a YAML spring document; flags set explicitly
	// override its fields.
	File string
}

// curveResult is the structured output of synth.
type curveResult struct {
	Mass       float64   `json:"mass" yaml:"mass"`
	Damping    float64   `json:"damping" yaml:"damping"`
	Stiffness  float64   `json:"stiffness" yaml:"stiffness"`
	Velocity   float64   `json:"velocity" yaml:"velocity"`
	Ratio      float64   `json:"damping_ratio" yaml:"dampingRatio"`
	DurationMS int64     `json:"duration_ms" yaml:"durationMs"`
	Curve      []float64 `json:"curve" yaml:"curve"`
}

// NewSynthCommand creates the synth command.
func NewSynthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SynthOptions{Spring: flip.DefaultSpring()}

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize an easing curve from spring parameters",
		Long: `Sample the step response of a damped spring into an easing curve.

The curve is printed as a CSS linear() easing with its duration, or as
JSON/YAML for further processing. Parameters default to flip's default spring.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.File != "" {
				if err := mergeSpringFile(cmd, opts); err != nil {
					return err
				}
			}
			return runSynth(rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64Var(&opts.Spring.Mass, "mass", opts.Spring.Mass, "spring mass")
	cmd.Flags().Float64Var(&opts.Spring.Stiffness, "stiffness", opts.Spring.Stiffness, "spring stiffness")
	cmd.Flags().Float64Var(&opts.Spring.Damping, "damping", opts.Spring.Damping, "spring damping")
	cmd.Flags().Float64Var(&opts.Spring.Velocity, "velocity", opts.Spring.Velocity, "initial velocity")
	cmd.Flags().IntVarP(&opts.Spring.SampleRate, "samples", "n", opts.Spring.SampleRate, "number of samples")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML file with a spring section")

	return cmd
}

// mergeSpringFile loads the spring section of a YAML file underneath the
// flags the user set explicitly.
func mergeSpringFile(cmd *cobra.Command, opts *SynthOptions) error {
	data, err := os.ReadFile(opts.File)
	if err != nil {
		return WrapExitError(ExitCommandError, "read spring file", err)
	}
	var doc struct {
		Spring yaml.Node `yaml:"spring"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return WrapExitError(ExitFailure, "parse spring file", err)
	}
	if doc.Spring.Kind == 0 {
		return nil
	}

	fromFile := flip.DefaultSpring()
	if err := doc.Spring.Decode(&fromFile); err != nil {
		return WrapExitError(ExitFailure, "parse spring file", err)
	}
	flags := cmd.Flags()
	if !flags.Changed("mass") {
		opts.Spring.Mass = fromFile.Mass
	}
	if !flags.Changed("stiffness") {
		opts.Spring.Stiffness = fromFile.Stiffness
	}
	if !flags.Changed("damping") {
		opts.Spring.Damping = fromFile.Damping
	}
	if !flags.Changed("velocity") {
		opts.Spring.Velocity = fromFile.Velocity
	}
	if !flags.Changed("samples") {
		opts.Spring.SampleRate = fromFile.SampleRate
	}
	return nil
}

func runSynth(rootOpts *RootOptions, opts *SynthOptions, w io.Writer) error {
	timing, err := flip.Synthesize(opts.Spring)
	if err != nil {
		return WrapExitError(ExitFailure, "synthesize", err)
	}

	s := opts.Spring
	res := curveResult{
		Mass:       s.Mass,
		Damping:    s.Damping,
		Stiffness:  s.Stiffness,
		Velocity:   s.Velocity,
		Ratio:      s.DampingRatio(),
		DurationMS: timing.Duration.Milliseconds(),
		Curve:      timing.Curve,
	}
	if ok, err := encode(w, rootOpts.Format, res); ok {
		return err
	}

	if rootOpts.Format == "css" {
		fmt.Fprintf(w, "transition-duration: %dms;\n", res.DurationMS)
		fmt.Fprintf(w, "transition-timing-function: %s;\n", timing.CSS())
		return nil
	}

	fmt.Fprintf(w, "spring      mass=%g stiffness=%g damping=%g velocity=%g\n",
		s.Mass, s.Stiffness, s.Damping, s.Velocity)
	fmt.Fprintf(w, "ratio       %.4f (%s)\n", res.Ratio, dampingRegime(res.Ratio))
	fmt.Fprintf(w, "duration    %dms\n", res.DurationMS)
	fmt.Fprintf(w, "samples     %d\n", len(timing.Curve))
	fmt.Fprintf(w, "easing      %s\n", timing.CSS())
	return nil
}

func dampingRegime(ratio float64) string {
	switch {
	case ratio < 1:
		return "underdamped"
	case ratio == 1:
		return "critically damped"
	default:
		return "overdamped"
	}
}
