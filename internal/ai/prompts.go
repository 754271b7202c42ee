package ai

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/classify.txt
	classifyPrompt string
	//go:embed prompts/summarize.txt
	summarizePrompt string
	//go:embed prompts/analyze.txt
	analyzePrompt string
)

func buildPrompt(template, content string) string {
	return strings.TrimRight(template, "\n") + "\n" + content
}

// truncateRunes limits content to the first n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
