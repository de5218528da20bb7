package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paritel/osm-search/internal/adapters/driven/store/rest"
	"github.com/paritel/osm-search/internal/adapters/driven/store/sqlite"
	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/logger"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the offline snapshot",
	Long: `Pull backend data into a local snapshot database and inspect it.

With a snapshot in place, 'osm-search --offline search' works without
a network connection.`,
}

var snapshotPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull all sources into the local snapshot",
	RunE:  runSnapshotPull,
}

var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the snapshot contains",
	RunE:  runSnapshotStatus,
}

func init() {
	snapshotCmd.AddCommand(snapshotPullCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotPull(cmd *cobra.Command, _ []string) error {
	client, err := backendClient()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(snapshotDir())
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	for _, querier := range rest.AllQueriers(client) {
		// A blank term matches every row.
		records, err := querier.Search(ctx, "")
		if err != nil {
			return fmt.Errorf("pulling %s: %w", querier.Type(), err)
		}

		info, err := store.Save(ctx, querier.Type(), records)
		if err != nil {
			return fmt.Errorf("saving %s: %w", querier.Type(), err)
		}

		logger.Debug("Snapshot %s: %d records (%s)", info.Type, info.Records, info.ID)
		cmd.Printf("  %-18s %d records\n", querier.Type(), info.Records)
	}

	cmd.Println("Snapshot complete.")
	return nil
}

func runSnapshotStatus(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.NewStore(snapshotDir())
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	empty := true
	for _, t := range domain.AllResultTypes() {
		info, err := store.Info(ctx, t)
		if errors.Is(err, domain.ErrSnapshotEmpty) {
			cmd.Printf("  %-18s (no snapshot)\n", t)
			continue
		}
		if err != nil {
			return fmt.Errorf("reading snapshot info: %w", err)
		}
		empty = false
		cmd.Printf("  %-18s %d records, taken %s\n", t, info.Records, info.TakenAt.Format("2006-01-02 15:04"))
	}

	if empty {
		cmd.Println("\nRun 'osm-search snapshot pull' to populate the snapshot.")
	}
	return nil
}
