// Package cli implements the sipdex command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipdex/sipdex/internal/adapters/driven/config/file"
	"github.com/sipdex/sipdex/internal/adapters/driven/storage/sqlite"
	openaisum "github.com/sipdex/sipdex/internal/adapters/driven/summariser/openai"
	"github.com/sipdex/sipdex/internal/connectors/github"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
	"github.com/sipdex/sipdex/internal/core/ports/driving"
	"github.com/sipdex/sipdex/internal/core/services"
	"github.com/sipdex/sipdex/internal/fetchers"
	"github.com/sipdex/sipdex/internal/logger"
	"github.com/sipdex/sipdex/internal/parser"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configPath  string
)

// engine is the wired reconciliation engine. Tests inject a fake;
// production wiring happens lazily in ensureEngine so flag parsing and
// help output never require a valid config.
var engine driving.Engine

var rootCmd = &cobra.Command{
	Use:   "sipdex",
	Short: "Reconcile improvement proposals across folders and pull requests",
	Long: `sipdex tracks a repository of improvement proposals and reconciles
the accepted folder, the withdrawn folder and the open pull requests
into one canonical list with a single status per proposal.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.sipdex/config.toml)")
}

// Execute runs the CLI with the given build version.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}

// ensureEngine wires config -> connector -> summariser -> store -> engine.
func ensureEngine() error {
	if engine != nil {
		return nil
	}

	path := configPath
	if path == "" {
		p, err := file.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := file.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (edit %s or pass --config)", err, path)
	}

	client := github.NewClient(github.Config{
		Owner:   cfg.Repository.Owner,
		Repo:    cfg.Repository.Name,
		Branch:  cfg.Repository.Branch,
		Token:   cfg.Repository.Token,
		Timeout: cfg.Timeout(),
	})

	var summariser driven.Summariser
	if cfg.Summariser.APIKey != "" {
		s, err := openaisum.New(openaisum.Config{
			APIKey:  cfg.Summariser.APIKey,
			BaseURL: cfg.Summariser.BaseURL,
			Model:   cfg.Summariser.Model,
		})
		if err != nil {
			return err
		}
		summariser = s
	} else {
		logger.Debug("no summariser API key, summaries degrade to the fallback text")
	}

	p := parser.New(summariser)
	sources := []driven.SourceFetcher{
		fetchers.NewAcceptedFolderFetcher(client, p, cfg.Repository.AcceptedDir),
		fetchers.NewWithdrawnFolderFetcher(client, p, cfg.Repository.WithdrawnDir),
		fetchers.NewChangeRequestFetcher(client, p, []string{
			cfg.Repository.AcceptedDir,
			cfg.Repository.WithdrawnDir,
		}, cfg.Repository.Concurrency),
	}

	// Persistence is best effort: a broken store only costs the warm cache.
	var store driven.SnapshotStore
	if s, err := sqlite.NewStore(cfg.Cache.DataDir); err != nil {
		logger.Warn("snapshot store unavailable: %v", err)
	} else {
		store = s
	}

	engine = services.NewReconcileEngine(sources, store, cfg.CacheTTL())
	return nil
}
