package gemini

import (
	_ "embed"
	"fmt"
)

//go:embed prompt.md
var promptTemplate string

// buildPrompt appends the user message to the fixed instruction-and-examples
// template.
func buildPrompt(message string) string {
	return fmt.Sprintf("%s\n\nNow, analyze: %q\n", promptTemplate, message)
}
