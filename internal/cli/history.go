package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/donuts/internal/ledger"
)

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and import the meeting history",
		Long: `Inspect and import the meeting history.

The history is append-only. Entries carrying a correlation token are
recorded at most once per token.`,
	}

	cmd.AddCommand(newHistorySizeCommand(rootOpts))
	cmd.AddCommand(newHistoryContainsCommand(rootOpts))
	cmd.AddCommand(newHistoryListCommand(rootOpts))
	cmd.AddCommand(newHistoryImportCommand(rootOpts))

	return cmd
}

// withHistory runs fn against the configured history store.
func withHistory(opts *RootOptions, cmd *cobra.Command, fn func(*session, ledger.Store) error) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	history, err := s.openHistory()
	if err != nil {
		return err
	}
	defer s.closeHistory(history)
	return fn(s, history)
}

func newHistorySizeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "size",
		Short:         "Print the number of recorded meetings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(opts, cmd, func(s *session, h ledger.Store) error {
				size, err := h.Size(cmd.Context())
				if err != nil {
					return fail(s.formatter, "failed to read history", err)
				}
				if s.formatter.JSON() {
					return s.formatter.Success(map[string]int{"size": size})
				}
				return s.formatter.Success(size)
			})
		},
	}
}

func newHistoryContainsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contains <token>",
		Short: "Report whether a correlation token was recorded",
		Long: `Report whether a correlation token was recorded.

Meetings recorded with "donuts record --token T" store one token per pair,
T#<lo>-<hi>; pass that form to check a single pair.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(opts, cmd, func(s *session, h ledger.Store) error {
				found, err := h.Contains(cmd.Context(), args[0])
				if err != nil {
					return fail(s.formatter, "failed to read history", err)
				}
				if s.formatter.JSON() {
					return s.formatter.Success(map[string]any{"token": args[0], "contains": found})
				}
				return s.formatter.Success(found)
			})
		},
	}
}

func newHistoryListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List recorded meetings in the order they were recorded",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(opts, cmd, func(s *session, h ledger.Store) error {
				entries, err := ledger.Collect(h.Entries(cmd.Context()))
				if err != nil {
					return fail(s.formatter, "failed to read history", err)
				}
				if s.formatter.JSON() {
					if entries == nil {
						entries = []ledger.Entry{}
					}
					return s.formatter.Success(map[string]any{"entries": entries})
				}
				for _, e := range entries {
					if e.Token != "" {
						fmt.Fprintf(s.formatter.Writer, "%s & %s [%s]\n", e.PersonA, e.PersonB, e.Token)
					} else {
						fmt.Fprintf(s.formatter.Writer, "%s & %s\n", e.PersonA, e.PersonB)
					}
				}
				return nil
			})
		},
	}
}

// importer is implemented by stores that can append many entries in one
// transaction.
type importer interface {
	Import(ctx context.Context, entries []ledger.Entry) (int, error)
}

// ImportResult is the JSON payload of the history import command.
type ImportResult struct {
	Read     int `json:"read"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func newHistoryImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <history.csv>",
		Short: "Append meetings from a history CSV file",
		Long: `Append meetings from a history CSV file.

Each row is "personA,personB" or "personA,personB,token". Rows of any
other shape are skipped with a warning. Rows whose token is already in
the history are not imported again.

Example:
  donuts history import ./old-history.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(opts, cmd, func(s *session, h ledger.Store) error {
				entries, warnings, err := ledger.ReadCSV(args[0], s.logger)
				if err != nil {
					return fail(s.formatter, "failed to read import file", err)
				}
				s.formatter.Warn(warnings)

				n, err := importEntries(cmd.Context(), h, entries)
				if err != nil {
					return fail(s.formatter, "failed to import history", err)
				}

				result := ImportResult{Read: len(entries), Imported: n, Skipped: len(entries) - n}
				if s.formatter.JSON() {
					return s.formatter.Success(result)
				}
				fmt.Fprintf(s.formatter.Writer, "Imported %d of %d entries\n", result.Imported, result.Read)
				return nil
			})
		},
	}
}

func importEntries(ctx context.Context, h ledger.Store, entries []ledger.Entry) (int, error) {
	if im, ok := h.(importer); ok {
		return im.Import(ctx, entries)
	}
	n := 0
	for _, e := range entries {
		recorded, err := h.Append(ctx, e.PersonA, e.PersonB, e.Token)
		if err != nil {
			return n, err
		}
		if recorded {
			n++
		}
	}
	return n, nil
}
