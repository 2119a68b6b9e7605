// history.go implements the "ralph history" command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ralph-dev/ralph/internal/history"
	"github.com/ralph-dev/ralph/internal/loop"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs",
	Long:  `List completed runs recorded in .ralph/history.db, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, controlDir, err := locateDirs()
	if err != nil {
		return err
	}

	dbPath := filepath.Join(controlDir, "history.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("%-19s  %-12s  %-5s  %5s  %12s  %10s  %s\n",
		"FINISHED", "ENGINE", "MODE", "ITERS", "TOKENS", "DURATION", "OUTCOME")
	for _, r := range records {
		fmt.Printf("%-19s  %-12s  %-5s  %5d  %12s  %10s  %s\n",
			r.FinishedAt.Format("2006-01-02 15:04:05"),
			r.Engine,
			r.Mode,
			r.Iterations,
			fmt.Sprintf("%d/%d", r.InputTokens, r.OutputTokens),
			loop.FormatDuration(r.Duration()),
			r.Outcome,
		)
	}
	return nil
}
