package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipdex/sipdex/internal/core/domain"
)

var (
	listRefresh bool
	listStatus  string
	listJSON    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked proposals",
	Long: `Lists every proposal reconciled from the accepted folder, the
withdrawn folder and the repository's pull requests. Results come from
the cache when it is fresh; use --refresh to force a refetch.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listRefresh, "refresh", false, "force a refetch even if the cache is fresh")
	listCmd.Flags().StringVar(&listStatus, "status", "", "only show proposals with this status")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := ensureEngine(); err != nil {
		return err
	}

	var filter domain.Status
	if listStatus != "" {
		status, ok := domain.ParseStatus(listStatus)
		if !ok {
			return fmt.Errorf("unknown status %q", listStatus)
		}
		filter = status
	}

	records, err := engine.ListAll(context.Background(), listRefresh)
	if err != nil {
		return fmt.Errorf("list proposals: %w", err)
	}

	if filter != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Status == filter {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	if listJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No proposals found.")
		return nil
	}

	cmd.Printf("%-26s %-15s %s\n", "ID", "STATUS", "TITLE")
	for _, rec := range records {
		cmd.Printf("%-26s %-15s %s\n", rec.ID, rec.Status, rec.Title)
	}
	cmd.Printf("\n%d proposals\n", len(records))
	return nil
}
