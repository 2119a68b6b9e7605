// init.go implements the "ralph init" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ralph-dev/ralph/internal/config"
	"github.com/ralph-dev/ralph/prompts"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ralph in the current project",
	Long: `Initialize the .ralph/ directory with config.yaml and the default
prompt templates for build and plan mode. Existing prompt files are
left untouched.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	// Check for an existing .ralph/ directory.
	controlDir := filepath.Join(dir, config.ControlDirName)
	if info, statErr := os.Stat(controlDir); statErr == nil && info.IsDir() {
		fmt.Printf("Warning: %s/ directory already exists.\n", config.ControlDirName)
		fmt.Print("Reinitialize? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := config.WriteConfig(dir, config.DefaultConfig()); err != nil {
		return err
	}

	// Write prompt templates, preserving any the user already edited.
	templates := map[string]string{
		"PROMPT_build.md": prompts.BuildPrompt,
		"PROMPT_plan.md":  prompts.PlanPrompt,
	}
	for name, content := range templates {
		path := filepath.Join(controlDir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Keeping existing %s\n", name)
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	if err := ensureGitignore(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to set up .gitignore: %v\n", err)
	}

	fmt.Printf("Initialized %s/. Edit %s/PROMPT_build.md and run 'ralph'.\n",
		config.ControlDirName, config.ControlDirName)
	return nil
}

// ensureGitignore keeps run artifacts out of version control.
func ensureGitignore(dir string) error {
	ignores := []string{
		config.ControlDirName + "/session.log",
		config.ControlDirName + "/history.db",
		config.ControlDirName + "/" + "STOP",
	}

	path := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	content := string(existing)
	var missing []string
	for _, ig := range ignores {
		if !containsLine(content, ig) {
			missing = append(missing, ig)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += strings.Join(missing, "\n") + "\n"
	return os.WriteFile(path, []byte(content), 0644)
}

func containsLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}
