package prompts

import _ "embed"

//go:embed templates/PROMPT_build.md
var BuildPrompt string

//go:embed templates/PROMPT_plan.md
var PlanPrompt string
