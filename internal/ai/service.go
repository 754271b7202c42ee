package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"medvault-backend/internal/llm"
	"medvault-backend/internal/shared/telemetry"
)

const (
	// minAnalyzableChars is the minimum extracted-text length worth sending
	// to the model. Shorter inputs are almost always extraction noise.
	minAnalyzableChars = 50

	classifyMaxChars  = 2000
	summarizeMaxChars = 2000
	analyzeMaxChars   = 2500
)

// failureIndicators mark extractor output that describes its own absence.
// Such text is never worth a model call.
var failureIndicators = []string{
	"could not extract text",
	"ocr failed",
}

const (
	notEnoughForSummary  = "Not enough content to generate a meaningful summary."
	notEnoughForAnalysis = "Not enough content to generate a meaningful analysis."
)

// Service classifies, summarizes, and analyzes extracted text with a
// generative model. All model failures degrade into text values instead of
// errors so the upload pipeline never blocks on the model.
type Service struct {
	LLM llm.Client
}

// New constructs a Service around the given model client.
func New(client llm.Client) *Service {
	return &Service{LLM: client}
}

// IsMedical reports whether the text reads like medical content. Short text,
// extraction-failure text, and model errors all classify as non-medical.
func (s *Service) IsMedical(ctx context.Context, text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minAnalyzableChars || containsFailureIndicator(trimmed) {
		telemetry.Info("ai.classify.skipped", map[string]any{"reason": "text too short or indicates extraction failure"})
		return false
	}

	prompt := buildPrompt(classifyPrompt, truncateRunes(text, classifyMaxChars))
	answer, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		telemetry.Error("ai.classify.failed", map[string]any{"err": err.Error()})
		return false
	}
	return strings.Contains(strings.ToUpper(answer), "YES")
}

// Summarize returns a concise summary of the text, or a text-shaped
// explanation when the input is too short or the model call fails.
func (s *Service) Summarize(ctx context.Context, text string) string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minAnalyzableChars {
		return notEnoughForSummary
	}

	prompt := buildPrompt(summarizePrompt, truncateRunes(text, summarizeMaxChars))
	out, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		telemetry.Error("ai.summarize.failed", map[string]any{"err": err.Error()})
		return fmt.Sprintf("Failed to generate summary: %v", err)
	}
	return strings.TrimSpace(out)
}

// Analyze returns a structured extraction of key details, or a text-shaped
// explanation when the input is too short or the model call fails.
func (s *Service) Analyze(ctx context.Context, text string) string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minAnalyzableChars {
		return notEnoughForAnalysis
	}

	prompt := buildPrompt(analyzePrompt, truncateRunes(text, analyzeMaxChars))
	out, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		telemetry.Error("ai.analyze.failed", map[string]any{"err": err.Error()})
		return fmt.Sprintf("Failed to analyze document: %v", err)
	}
	return strings.TrimSpace(out)
}

func containsFailureIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range failureIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
