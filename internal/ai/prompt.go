package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a walkthrough script author. Your task is to draft a tour guide script in the TourKit guide DSL from a description of what the tour should show.

You will receive:
1. A tour map listing every route of the application and the anchors (stable element identifiers) rendered on each route, plus the list of lifecycle event names the app emits
2. A user prompt describing what the tour should demonstrate

Output plain guide DSL text, one directive per line. Recognized directives:

  Narration: <message>
  Goto routeKey: <key>
  Click <label> (<anchor>)
  Fill <label> (<anchor>) value:<literal>
  Fill <label> (<anchor>) env:<ENV_VAR>
  Wait for <label> (<event>) timeout:<ms>
  Expect visible <label> (<anchor>) timeout:<ms>
  Wait <ms>ms
  Screenshot <label> name:<name>
  Annotate <label> target:<name> instructions:<text>

Guidelines:
- Use only route keys, anchors, and event names present in the provided tour map
- Open with a Narration line that sets the scene
- Navigate with Goto before interacting with a route's anchors
- After any action that triggers async work, wait for the matching event rather than a fixed delay
- Use env: for anything secret-shaped; never invent literal credentials
- Take a Screenshot after each state worth documenting
- Lines starting with # are comments

Respond ONLY with the guide script, no explanation and no markdown fences.`

const userPromptTemplate = `Tour map:
%s

Draft a guide for: %s`

// buildUserPrompt assembles the drafting request.
func buildUserPrompt(mapJSON, prompt string) string {
	return fmt.Sprintf(userPromptTemplate, mapJSON, prompt)
}

// cleanGuideText strips markdown fences the model may add despite
// instructions, and trims trailing whitespace per line.
func cleanGuideText(response string) string {
	text := strings.TrimSpace(response)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			lines = lines[1:]
		}
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[:len(lines)-1]
		}
		text = strings.Join(lines, "\n")
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.Join(out, "\n") + "\n"
}
