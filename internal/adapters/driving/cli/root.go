// Package cli implements the cobra command tree for osm-search.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/paritel/osm-search/internal/adapters/driven/config/file"
	"github.com/paritel/osm-search/internal/adapters/driven/store/localdir"
	"github.com/paritel/osm-search/internal/adapters/driven/store/rest"
	"github.com/paritel/osm-search/internal/adapters/driven/store/sqlite"
	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
	"github.com/paritel/osm-search/internal/core/ports/driving"
	"github.com/paritel/osm-search/internal/core/services"
	"github.com/paritel/osm-search/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

// Wired services, shared by the commands. Populated by initServices
// unless a test injects its own.
var (
	configStore   driven.ConfigStore
	searchService driving.SearchService

	// serviceErr records why the search service could not be built,
	// so commands that need it can surface the reason.
	serviceErr error
)

var (
	flagVerbose   bool
	flagOffline   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "osm-search",
	Short: "Federated search across the OSM back office",
	Long: `osm-search searches tenders, catalog products and document stores
of the OSM back office from one place.

A single query fans out to every enabled source, and the merged
results are ranked by title match, relevance and recency.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "search the local snapshot instead of the backend")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.osm-search)")
}

// initServices wires the adapters before any command runs. A missing
// backend configuration is not fatal here: config and login still have
// to work, so commands that need the search service check for it.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if configStore == nil {
		store, err := file.NewConfigStore(flagConfigDir)
		if err != nil {
			return fmt.Errorf("opening config: %w", err)
		}
		configStore = store
	}

	if searchService != nil {
		return nil
	}

	if err := buildSearchService(); err != nil {
		serviceErr = err
		logger.Debug("Search service unavailable: %v", err)
	}
	return nil
}

func buildSearchService() error {
	queriers, err := buildQueriers()
	if err != nil {
		return err
	}

	registry := services.NewSourceRegistry(enabledQueriers(queriers)...)
	searchService = services.NewSearchService(registry)
	return nil
}

// buildQueriers assembles the five source queriers, from the backend
// in the default mode or from the snapshot database offline. A
// configured local library mirror replaces the library source either
// way.
func buildQueriers() ([]driven.SourceQuerier, error) {
	var queriers []driven.SourceQuerier

	if flagOffline {
		store, err := sqlite.NewStore(snapshotDir())
		if err != nil {
			return nil, fmt.Errorf("opening snapshot store: %w", err)
		}
		queriers = store.Queriers()
	} else {
		client, err := backendClient()
		if err != nil {
			return nil, err
		}
		queriers = rest.AllQueriers(client)
	}

	if dir := configStore.GetString(file.KeyLibraryLocalDir); dir != "" {
		mirror, err := localdir.NewStore(dir)
		if err != nil {
			logger.Warn("Library mirror %s unavailable: %v", dir, err)
		} else {
			for i, q := range queriers {
				if q.Type() == domain.TypeLibraryDocument {
					queriers[i] = mirror
				}
			}
		}
	}

	return queriers, nil
}

// backendClient builds the REST client from the stored configuration.
func backendClient() (*rest.Client, error) {
	cfg := rest.Config{
		BaseURL: configStore.GetString(file.KeyBackendURL),
		APIKey:  configStore.GetString(file.KeyBackendAPIKey),
	}
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, errors.New("backend not configured: run 'osm-search config set backend.url <url>' and 'osm-search config set backend.api_key <key>'")
	}
	if token := configStore.GetString(file.KeyAccessToken); token != "" {
		cfg.Tokens = rest.StaticTokenSource(token)
	}
	return rest.NewClient(cfg)
}

// enabledQueriers drops the sources listed in search.disabled_sources.
func enabledQueriers(queriers []driven.SourceQuerier) []driven.SourceQuerier {
	disabled := make(map[domain.ResultType]bool)
	for _, name := range configStore.GetStringSlice(file.KeyDisabledSources) {
		t, err := domain.ParseResultType(name)
		if err != nil {
			logger.Warn("Ignoring unknown disabled source %q", name)
			continue
		}
		disabled[t] = true
	}

	enabled := make([]driven.SourceQuerier, 0, len(queriers))
	for _, q := range queriers {
		if !disabled[q.Type()] {
			enabled = append(enabled, q)
		}
	}
	return enabled
}

// searchOptions builds SearchOptions from the stored defaults. Flags
// on the search command override these.
func searchOptions() domain.SearchOptions {
	opts := domain.SearchOptions{}
	if size := configStore.GetInt(file.KeyPageSize); size > 0 {
		opts.PageSize = size
	}
	if ms := configStore.GetInt(file.KeySourceTimeoutMS); ms > 0 {
		opts.SourceTimeout = time.Duration(ms) * time.Millisecond
	}
	return opts
}

func snapshotDir() string {
	if dir := configStore.GetString(file.KeySnapshotDir); dir != "" {
		return dir
	}
	return filepath.Dir(configStore.Path())
}

// requireSearchService returns the wiring error for commands that
// cannot run without one.
func requireSearchService() error {
	if searchService != nil {
		return nil
	}
	if serviceErr != nil {
		return serviceErr
	}
	return errors.New("search service not configured")
}
