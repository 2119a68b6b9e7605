// stop.go implements the "ralph stop" command, which asks a running loop to
// finish its current iteration and exit.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ralph-dev/ralph/internal/loop"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Signal a running loop to stop",
	Long: `Create the STOP marker in .ralph/. A running loop observes the marker
at the next iteration boundary, removes it, and shuts down cleanly. The
current iteration is allowed to finish.`,
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	_, controlDir, err := locateDirs()
	if err != nil {
		return err
	}
	if err := loop.RequestStop(controlDir); err != nil {
		return fmt.Errorf("creating stop marker: %w", err)
	}
	fmt.Printf("Stop requested: %s\n", loop.StopMarkerPath(controlDir))
	return nil
}
