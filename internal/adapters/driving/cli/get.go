package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sipdex/sipdex/internal/core/domain"
)

var (
	getRefresh bool
	getJSON    bool
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one proposal",
	Long: `Shows the reconciled view of a single proposal. The id is
normalised, so "7", "07" and "SIP-007" all resolve to sip-007.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getRefresh, "refresh", false, "force a refetch even if the cache is fresh")
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output the record as JSON")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := ensureEngine(); err != nil {
		return err
	}

	rec, err := engine.GetByID(context.Background(), args[0], getRefresh)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no proposal matches %q", args[0])
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return fmt.Errorf("invalid proposal id %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("get proposal: %w", err)
	}

	if getJSON {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s: %s\n", rec.ID, rec.Title)
	cmd.Printf("Status:  %s\n", rec.Status)
	if rec.Author != "" {
		cmd.Printf("Author:  %s\n", rec.Author)
	}
	if rec.ChangeRequestNumber != 0 {
		cmd.Printf("PR:      #%d\n", rec.ChangeRequestNumber)
	}
	if rec.OriginURL != "" {
		cmd.Printf("Origin:  %s\n", rec.OriginURL)
	}
	cmd.Printf("Created: %s\n", formatDate(rec.CreatedAt))
	if !rec.UpdatedAt.IsZero() {
		cmd.Printf("Updated: %s\n", formatDate(rec.UpdatedAt))
	}
	if !rec.MergedAt.IsZero() {
		cmd.Printf("Merged:  %s\n", formatDate(rec.MergedAt))
	}

	cmd.Println()
	cmd.Println(rec.Summary)
	if rec.Structured.WhatItIs != domain.FallbackSummary {
		cmd.Println()
		cmd.Printf("What it is:      %s\n", rec.Structured.WhatItIs)
		cmd.Printf("What it changes: %s\n", rec.Structured.WhatItChanges)
		cmd.Printf("Why it matters:  %s\n", rec.Structured.WhyItMatters)
	}
	return nil
}

// formatDate renders a date, marking the epoch sentinel as unknown.
func formatDate(t time.Time) string {
	if t.Equal(domain.EpochSentinel) {
		return "unknown"
	}
	return t.Format("2006-01-02")
}
