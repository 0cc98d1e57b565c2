package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/speechtracker/internal/models"
)

var syncChildID int64

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the spreadsheet into a child's records",
	Long: `Fetches the Words, Phrases, Songs and Letters tabs and upserts every row
for the child. Suitable for running from cron.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSheets(cmd, true)
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print what the spreadsheet holds for a child without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSheets(cmd, false)
	},
}

var checkSheetsCmd = &cobra.Command{
	Use:   "check-sheets",
	Short: "Verify access to the configured spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := a.sync.TestConnection(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Connection successful\nSpreadsheet title: %s\nSheet tabs found: %d\n", info.Title, len(info.Sheets))
		for _, name := range info.Sheets {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{syncCmd, fetchCmd} {
		cmd.Flags().Int64Var(&syncChildID, "child", 0, "target child ID (default sheets.default_child_id)")
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(checkSheetsCmd)
}

func runSheets(cmd *cobra.Command, save bool) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	childID := syncChildID
	if childID == 0 {
		childID = a.cfg.Sheets.DefaultChildID
	}

	var result *models.SyncResult
	if save {
		result, err = a.sync.FetchAndSave(ctx, childID)
	} else {
		result, err = a.sync.Fetch(ctx, childID)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if save {
		return enc.Encode(map[string]any{"counts": result.Counts(), "stats": result.Stats})
	}
	return enc.Encode(result)
}
