package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paritel/osm-search/internal/adapters/driven/config/file"
	"github.com/paritel/osm-search/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage search sources",
	Long: `List the search sources and enable or disable them.

Disabled sources are skipped by the search fan-out. The setting is
persisted in the configuration file.`,
	RunE: runSourcesList,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources and their state",
	RunE:  runSourcesList,
}

var sourcesEnableCmd = &cobra.Command{
	Use:   "enable [type]",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesEnable,
}

var sourcesDisableCmd = &cobra.Command{
	Use:   "disable [type]",
	Short: "Disable a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesDisable,
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesEnableCmd)
	sourcesCmd.AddCommand(sourcesDisableCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesList(cmd *cobra.Command, _ []string) error {
	disabled := disabledSourceSet()

	cmd.Println("Sources:")
	for _, t := range domain.AllResultTypes() {
		state := "enabled"
		if disabled[t] {
			state = "disabled"
		}
		cmd.Printf("  %s %-18s %-20s [%s]\n", t.Icon(), t, t.Label(), state)
	}
	return nil
}

func runSourcesEnable(cmd *cobra.Command, args []string) error {
	t, err := domain.ParseResultType(args[0])
	if err != nil {
		return err
	}

	disabled := disabledSourceSet()
	if !disabled[t] {
		cmd.Printf("Source %s is already enabled.\n", t)
		return nil
	}
	delete(disabled, t)

	if err := saveDisabledSources(disabled); err != nil {
		return fmt.Errorf("saving sources: %w", err)
	}
	cmd.Printf("Enabled source %s.\n", t)
	return nil
}

func runSourcesDisable(cmd *cobra.Command, args []string) error {
	t, err := domain.ParseResultType(args[0])
	if err != nil {
		return err
	}

	disabled := disabledSourceSet()
	if disabled[t] {
		cmd.Printf("Source %s is already disabled.\n", t)
		return nil
	}
	disabled[t] = true

	if err := saveDisabledSources(disabled); err != nil {
		return fmt.Errorf("saving sources: %w", err)
	}
	cmd.Printf("Disabled source %s.\n", t)
	return nil
}

func disabledSourceSet() map[domain.ResultType]bool {
	set := make(map[domain.ResultType]bool)
	for _, name := range configStore.GetStringSlice(file.KeyDisabledSources) {
		if t, err := domain.ParseResultType(name); err == nil {
			set[t] = true
		}
	}
	return set
}

// saveDisabledSources persists the set in display order so the config
// file stays stable.
func saveDisabledSources(disabled map[domain.ResultType]bool) error {
	names := make([]string, 0, len(disabled))
	for _, t := range domain.AllResultTypes() {
		if disabled[t] {
			names = append(names, string(t))
		}
	}
	return configStore.Set(file.KeyDisabledSources, names)
}
