package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/donuts/internal/engine"
)

// AssignOptions holds flags for the assign command.
type AssignOptions struct {
	*RootOptions

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// NewAssignCommand creates the assign command.
func NewAssignCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AssignOptions{RootOptions: rootOpts}
	return newAssignCommand(opts)
}

func newAssignCommand(opts *AssignOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Compute a new set of chat groups",
		Long: `Compute a new set of chat groups from the registry and meeting history.

Everyone is paired, with one group of three when the roster is odd. Pairs
who have met before are avoided whenever another arrangement exists.

Example:
  donuts assign --registry ./registry.csv --history ./history.db
  donuts assign --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssign(opts, cmd)
		},
	}
	return cmd
}

func runAssign(opts *AssignOptions, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	reg, _, err := s.loadRegistry()
	if err != nil {
		return err
	}
	history, err := s.openHistory()
	if err != nil {
		return err
	}
	defer s.closeHistory(history)

	engineOpts := []engine.Option{engine.WithLogger(s.logger)}
	if opts.RunIDs != nil {
		engineOpts = append(engineOpts, engine.WithRunIDGenerator(opts.RunIDs))
	}
	eng := engine.New(reg, history, engineOpts...)

	res, err := eng.Assign(cmd.Context())
	if err != nil {
		return fail(s.formatter, "failed to assign", err)
	}

	if s.formatter.JSON() {
		return s.formatter.Success(res)
	}
	s.formatter.Warn(res.Warnings)
	writeAssignment(s.formatter.Writer, res)
	return nil
}

func writeAssignment(w io.Writer, res *engine.Result) {
	fmt.Fprintf(w, "Run %s: %s, cost %d\n", res.RunID, pluralize(len(res.Groups), "group", "groups"), res.Cost)
	for _, g := range res.Groups {
		fmt.Fprintln(w, joinNames(g))
	}
}
