package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paritel/osm-search/internal/core/domain"
)

var (
	searchTypes    []string
	searchPage     int
	searchPageSize int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search tenders, products and documents",
	Long: `Searches every enabled source for the given term and prints the
merged result page.

Results are ordered by title match first, then relevance, then
recency. Filter by type with --types; the value "document" covers
all three document sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchTypes, "types", "t", nil, "restrict to result types (tender, product_service, tender_document, product_document, library_document, document)")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "page number")
	searchCmd.Flags().IntVarP(&searchPageSize, "page-size", "n", 0, "results per page")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := args[0]

	if err := requireSearchService(); err != nil {
		return err
	}

	types, err := domain.ExpandTypeFilter(searchTypes)
	if err != nil {
		return err
	}

	opts := searchOptions()
	opts.Types = types
	opts.Page = searchPage
	if searchPageSize > 0 {
		opts.PageSize = searchPageSize
	}

	page, err := searchService.Search(cmd.Context(), term, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, page)
	}

	return outputSearchList(cmd, page, opts)
}

func outputSearchJSON(cmd *cobra.Command, page domain.SearchPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, page domain.SearchPage, opts domain.SearchOptions) error {
	if page.Count == 0 {
		cmd.Println("No results found.")
		return nil
	}

	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	pageNum := opts.Page
	if pageNum < 1 {
		pageNum = 1
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range page.Results {
		// Format: [N] ◆ Title (Type)
		cmd.Printf("  [%d] %s %s (%s)\n", (pageNum-1)*pageSize+i+1, r.Type.Icon(), r.Title, r.Type.Label())
		if r.Description != "" {
			cmd.Printf("      %s\n", r.Description)
		}
		if r.Link != "" {
			cmd.Printf("      %s\n", r.Link)
		}
		cmd.Println()
	}

	cmd.Printf("Page %d of %d (%d matches)\n", pageNum, page.TotalPages(pageSize), page.Count)
	return nil
}
