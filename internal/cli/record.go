package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/donuts/internal/engine"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Token string
}

// RecordResult is the JSON payload of the record command.
type RecordResult struct {
	Meetings []engine.Meeting `json:"meetings"`
	Recorded int              `json:"recorded"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <person> <person> [person...]",
		Short: "Record that people met",
		Long: `Record a confirmed meeting between two or more people.

People may be named by display name or email, ignoring case. Every pair
among them is recorded. The --token (for example the id of the confirming
message) is stored per pair as <token>#<lo>-<hi>, where lo and hi are the
pair's registry ids, so passing the same token again records nothing new,
even when the repeat names more people than the first confirmation.

Example:
  donuts record Alice Bob --token msg-123
  donuts record alice@example.com Bob Charlie`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Token, "token", "t", "", "correlation token used to ignore repeated confirmations")

	return cmd
}

func runRecord(opts *RecordOptions, people []string, cmd *cobra.Command) error {
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

	eng := engine.New(reg, history, engine.WithLogger(s.logger))

	meetings, err := eng.RecordGroup(cmd.Context(), people, opts.Token)
	if err != nil {
		return fail(s.formatter, "failed to record meeting", err)
	}

	result := RecordResult{Meetings: meetings}
	for _, m := range meetings {
		if m.Recorded {
			result.Recorded++
		}
	}

	if s.formatter.JSON() {
		return s.formatter.Success(result)
	}
	w := s.formatter.Writer
	for _, m := range meetings {
		if m.Recorded {
			fmt.Fprintf(w, "Recorded: %s & %s\n", m.A.Name, m.B.Name)
		} else {
			fmt.Fprintf(w, "Already recorded: %s & %s (token %s)\n", m.A.Name, m.B.Name, m.Token)
		}
	}
	return nil
}
