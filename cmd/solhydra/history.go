package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/solhydra/internal/config"
	"github.com/nao1215/solhydra/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated reports",
		Long: `History lists the report runs recorded in the history database.

Every successful 'solhydra report' records the workspace, the report
path and format, the contracts and tools it covered, and a SHA3-256
digest of the report file, so a shared report can be checked against
the run that produced it.

Examples:
  # Latest runs
  solhydra history

  # Latest 5 runs
  solhydra history -n 5

  # Details of one run
  solhydra history --id 12

  # Runs as JSON
  solhydra history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Int64P("id", "i", 0,
		"Show the details of the run with this id")
	cmd.Flags().BoolP("json", "j", false,
		"Output runs in JSON format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Listing never creates the database.
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		if id != 0 {
			return fmt.Errorf("%w: %d", database.ErrRunNotFound, id)
		}
		fmt.Fprintln(out, "No report runs recorded yet.")
		fmt.Fprintln(out, "\nUse 'solhydra report' to build a report.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if id != 0 {
		return showRun(ctx, db, id, jsonOutput, out)
	}
	return listRuns(ctx, db, limit, jsonOutput, out)
}

// listRuns prints the latest runs, newest first.
func listRuns(ctx context.Context, db *database.HistoryDB, limit int, jsonOutput bool, out io.Writer) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No report runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "Report runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-6s  %-6s  %s\n", "ID", "Date", "Format", "Units", "Tools", "Report")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 76))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8s  %-6d  %-6d  %s\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Format,
			len(run.Units),
			len(run.Tools),
			run.ReportPath,
		)
	}

	fmt.Fprintln(out, "\nUse 'solhydra history --id <id>' to see the details of a run.")
	return nil
}

// showRun prints one run in full.
func showRun(ctx context.Context, db *database.HistoryDB, id int64, jsonOutput bool, out io.Writer) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(out, run)
	}

	fmt.Fprintf(out, "Run %d\n", run.ID)
	fmt.Fprintf(out, "  Date:      %s\n", run.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Workspace: %s\n", run.Workspace)
	fmt.Fprintf(out, "  Report:    %s (%s, %d bytes)\n", run.ReportPath, run.Format, run.Size)
	fmt.Fprintf(out, "  SHA3-256:  %s\n", run.Digest)
	fmt.Fprintf(out, "  Units:     %s\n", joinOrNone(run.Units))
	fmt.Fprintf(out, "  Tools:     %s\n", joinOrNone(run.Tools))
	return nil
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "(none)"
	}
	return strings.Join(s, ", ")
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
