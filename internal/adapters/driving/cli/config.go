package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paritel/osm-search/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the stored configuration.

Common keys:
  backend.url               backend project URL
  backend.api_key           backend API key
  search.page_size          default results per page
  search.source_timeout_ms  per-source timeout in milliseconds
  library.local_dir         local mirror of the document library
  snapshot.dir              snapshot database directory`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Integers and booleans are detected from
the value; everything else is stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Configuration file: %s\n", configStore.Path())
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", orUnset(configStore.GetString(file.KeyBackendURL)))
	cmd.Printf("  API Key: %s\n", orUnset(maskSecret(configStore.GetString(file.KeyBackendAPIKey))))
	cmd.Printf("  Account: %s\n", orUnset(configStore.GetString(file.KeyBackendEmail)))
	if configStore.GetString(file.KeyAccessToken) != "" {
		cmd.Println("  Session: logged in")
	} else {
		cmd.Println("  Session: not logged in")
	}
	cmd.Println()

	cmd.Println("[Search]")
	if size := configStore.GetInt(file.KeyPageSize); size > 0 {
		cmd.Printf("  Page size: %d\n", size)
	} else {
		cmd.Println("  Page size: (default)")
	}
	if ms := configStore.GetInt(file.KeySourceTimeoutMS); ms > 0 {
		cmd.Printf("  Source timeout: %dms\n", ms)
	} else {
		cmd.Println("  Source timeout: (default)")
	}
	if disabled := configStore.GetStringSlice(file.KeyDisabledSources); len(disabled) > 0 {
		cmd.Printf("  Disabled sources: %v\n", disabled)
	}
	cmd.Println()

	cmd.Println("[Library]")
	cmd.Printf("  Local mirror: %s\n", orUnset(configStore.GetString(file.KeyLibraryLocalDir)))

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	val, ok := configStore.Get(args[0])
	if !ok {
		cmd.Printf("%s is not set\n", args[0])
		return nil
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskSecret(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
