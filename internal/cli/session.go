package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/donuts/internal/config"
	"github.com/roach88/donuts/internal/ledger"
	"github.com/roach88/donuts/internal/roster"
	"github.com/roach88/donuts/internal/source"
	"github.com/roach88/donuts/internal/store"
)

// session is the state shared by one command invocation.
type session struct {
	cfg       config.Config
	logger    *slog.Logger
	formatter *OutputFormatter
}

func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Diagnostics go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fail(formatter, "failed to load config", &configError{err})
	}
	if opts.Registry != "" {
		cfg.RegistryPath = opts.Registry
	}
	if opts.History != "" {
		cfg.HistoryPath = opts.History
	}
	if opts.Backend != "" {
		cfg.HistoryBackend = opts.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, fail(formatter, "invalid flags", &configError{err})
	}

	// Configure logging based on config and verbose flag
	logLevel := cfg.Level()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})

	return &session{
		cfg:       cfg,
		logger:    slog.New(handler),
		formatter: formatter,
	}, nil
}

// loadRegistry reads the roster and reports skipped rows as warnings.
func (s *session) loadRegistry() (*roster.Registry, []source.Warning, error) {
	s.logger.Debug("loading registry", "path", s.cfg.RegistryPath)
	reg, warnings, err := roster.LoadCSV(s.cfg.RegistryPath, s.logger)
	if err != nil {
		return nil, nil, fail(s.formatter, "failed to load registry", err)
	}
	s.formatter.Warn(warnings)
	return reg, warnings, nil
}

// openHistory opens the configured history backend. The caller closes it.
func (s *session) openHistory() (ledger.Store, error) {
	s.logger.Debug("opening history", "backend", s.cfg.HistoryBackend, "path", s.cfg.HistoryPath)

	var (
		h   ledger.Store
		err error
	)
	switch s.cfg.HistoryBackend {
	case config.BackendCSV:
		h, err = ledger.OpenCSV(s.cfg.HistoryPath, s.logger)
	default:
		h, err = store.Open(s.cfg.HistoryPath, store.WithLogger(s.logger))
	}
	if err != nil {
		return nil, fail(s.formatter, "failed to open history", err)
	}
	return h, nil
}

// closeHistory closes h, logging rather than returning any error.
func (s *session) closeHistory(h ledger.Store) {
	if err := h.Close(); err != nil {
		s.logger.Error("error closing history", "error", err)
	}
}

// joinNames renders people as "A & B & C".
func joinNames(people []roster.Person) string {
	out := ""
	for i, p := range people {
		if i > 0 {
			out += " & "
		}
		out += p.Name
	}
	return out
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
