// args.go builds the per-backend invocation shapes. The flag sets are fixed
// configuration: every backend runs in batch mode with permission prompts
// bypassed and output forced to a line-delimited event stream.
package supervise

import (
	"fmt"

	"github.com/ralph-dev/ralph/internal/session"
)

// Backend identifies one of the supported agent executables.
type Backend string

const (
	BackendClaude Backend = "claude"
	BackendCodex  Backend = "codex"
	BackendCursor Backend = "cursor-agent"
)

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case BackendClaude, BackendCodex, BackendCursor:
		return Backend(name), nil
	}
	return "", fmt.Errorf("unknown backend %q", name)
}

// Invocation describes one subprocess launch: the argv, how the prompt is
// delivered, and the working directory. Dir is always the project root, one
// level above the control directory.
type Invocation struct {
	Command        string
	Args           []string
	Prompt         string
	PromptViaStdin bool
	Dir            string
}

// BuildInvocation constructs the invocation for one iteration. model
// overrides the backend's default model where supported; mode selects
// planning behavior for backends that have a mode flag.
func BuildInvocation(backend Backend, prompt, projectRoot, model, mode string) (Invocation, error) {
	switch backend {
	case BackendClaude:
		if model == "" {
			model = "opus"
		}
		// Claude reads the prompt from stdin: large prompts with arbitrary
		// characters do not survive argv on this backend's older releases.
		return Invocation{
			Command: "claude",
			Args: []string{
				"-p",
				"--dangerously-skip-permissions",
				"--output-format=stream-json",
				"--model", model,
				"--verbose",
			},
			Prompt:         prompt,
			PromptViaStdin: true,
			Dir:            projectRoot,
		}, nil

	case BackendCodex:
		// Codex cannot reliably read large prompts from stdin, so the prompt
		// travels as a single trailing argument.
		return Invocation{
			Command: "codex",
			Args: []string{
				"exec", prompt,
				"--full-auto",
				"--sandbox", "danger-full-access",
				"--skip-git-repo-check",
				"--json",
			},
			Prompt: prompt,
			Dir:    projectRoot,
		}, nil

	case BackendCursor:
		args := []string{
			"agent",
			"--print",
			"--output-format", "stream-json",
			"--force",
			"--approve-mcps",
			"--workspace", projectRoot,
		}
		if model != "" {
			args = append(args, "--model", model)
		}
		if mode == session.ModePlan {
			args = append(args, "--mode", "plan")
		}
		args = append(args, "--", prompt)
		return Invocation{
			Command: "cursor-agent",
			Args:    args,
			Prompt:  prompt,
			Dir:     projectRoot,
		}, nil
	}

	return Invocation{}, fmt.Errorf("unknown backend %q", backend)
}
