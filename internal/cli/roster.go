package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/donuts/internal/roster"
	"github.com/roach88/donuts/internal/source"
)

// RosterReport is the JSON payload of the roster check command.
type RosterReport struct {
	Size     int              `json:"size"`
	People   []roster.Person  `json:"people"`
	Warnings []source.Warning `json:"warnings,omitempty"`
}

// NewRosterCommand creates the roster command and its subcommands.
func NewRosterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect the registry",
	}
	cmd.AddCommand(newRosterCheckCommand(rootOpts))
	return cmd
}

func newRosterCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the registry and report problems",
		Long: `Load the registry and report problems.

Malformed rows are reported as warnings and skipped. A name or email used
by two people makes the whole registry invalid.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts, cmd)
			if err != nil {
				return err
			}
			reg, warnings, err := s.loadRegistry()
			if err != nil {
				return err
			}

			report := RosterReport{Size: reg.Size(), People: []roster.Person{}, Warnings: warnings}
			for _, p := range reg.All() {
				report.People = append(report.People, p)
			}

			if s.formatter.JSON() {
				return s.formatter.Success(report)
			}
			w := s.formatter.Writer
			fmt.Fprintf(w, "Registry OK: %s\n", pluralize(report.Size, "person", "people"))
			for _, p := range report.People {
				fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Email)
			}
			return nil
		},
	}
}
