package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func longText(prefix string, n int) string {
	return prefix + strings.Repeat("x", n)
}

func TestSummarizeShortTextSkipsModel(t *testing.T) {
	t.Parallel()

	client := &fakeLLM{response: "should not be used"}
	svc := New(client)

	got := svc.Summarize(context.Background(), "too short")
	if got != "Not enough content to generate a meaningful summary." {
		t.Fatalf("Summarize = %q", got)
	}
	if client.calls != 0 {
		t.Fatalf("expected 0 model calls, got %d", client.calls)
	}
}

func TestAnalyzeShortTextSkipsModel(t *testing.T) {
	t.Parallel()

	client := &fakeLLM{response: "should not be used"}
	svc := New(client)

	got := svc.Analyze(context.Background(), "too short")
	if got != "Not enough content to generate a meaningful analysis." {
		t.Fatalf("Analyze = %q", got)
	}
	if client.calls != 0 {
		t.Fatalf("expected 0 model calls, got %d", client.calls)
	}
}

func TestGuardsCountCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 30 characters but 60 bytes; the guard must still treat it as short.
	text := strings.Repeat("é", 30)

	client := &fakeLLM{response: "model output"}
	svc := New(client)

	if got := svc.Summarize(context.Background(), text); got != "Not enough content to generate a meaningful summary." {
		t.Fatalf("Summarize = %q", got)
	}
	if got := svc.Analyze(context.Background(), text); got != "Not enough content to generate a meaningful analysis." {
		t.Fatalf("Analyze = %q", got)
	}
	if svc.IsMedical(context.Background(), text) {
		t.Fatalf("expected non-medical verdict for short input")
	}
	if client.calls != 0 {
		t.Fatalf("expected 0 model calls for 30-character input, got %d", client.calls)
	}

	// 50 multibyte characters is long enough.
	if got := svc.Summarize(context.Background(), strings.Repeat("é", 50)); got != "model output" {
		t.Fatalf("Summarize = %q", got)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 model call for 50-character input, got %d", client.calls)
	}
}

func TestIsMedicalFailClosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		client    *fakeLLM
		wantCalls int
	}{
		{
			name:      "short text",
			text:      "tiny",
			client:    &fakeLLM{response: "YES"},
			wantCalls: 0,
		},
		{
			name:      "ocr failure marker",
			text:      longText("OCR Failed for image 'x.png'. ", 100),
			client:    &fakeLLM{response: "YES"},
			wantCalls: 0,
		},
		{
			name:      "model call failure",
			text:      longText("patient presented with ", 100),
			client:    &fakeLLM{err: errors.New("quota exceeded")},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := New(tt.client)
			if svc.IsMedical(context.Background(), tt.text) {
				t.Fatalf("expected non-medical verdict")
			}
			if tt.client.calls != tt.wantCalls {
				t.Fatalf("expected %d model calls, got %d", tt.wantCalls, tt.client.calls)
			}
		})
	}
}

func TestIsMedicalParsesYes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{name: "plain yes", response: "YES", want: true},
		{name: "lowercase", response: "yes", want: true},
		{name: "embedded", response: "The answer is YES.", want: true},
		{name: "no", response: "NO", want: false},
		{name: "noise", response: "cannot determine", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := New(&fakeLLM{response: tt.response})
			got := svc.IsMedical(context.Background(), longText("clinical notes for patient ", 100))
			if got != tt.want {
				t.Fatalf("IsMedical = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarizeTruncatesInput(t *testing.T) {
	t.Parallel()

	client := &fakeLLM{response: "summary"}
	svc := New(client)

	// "q" does not occur in the prompt template, so counting it isolates
	// the user content that survived truncation.
	text := strings.Repeat("q", 3000)
	if got := svc.Summarize(context.Background(), text); got != "summary" {
		t.Fatalf("Summarize = %q", got)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(client.prompts))
	}
	if strings.Count(client.prompts[0], "q") != summarizeMaxChars {
		t.Fatalf("expected prompt to carry %d content chars, got %d", summarizeMaxChars, strings.Count(client.prompts[0], "q"))
	}
}

func TestAnalyzeEmbedsModelFailure(t *testing.T) {
	t.Parallel()

	client := &fakeLLM{err: errors.New("backend unavailable")}
	svc := New(client)

	got := svc.Analyze(context.Background(), longText("discharge summary ", 200))
	if got != "Failed to analyze document: backend unavailable" {
		t.Fatalf("Analyze = %q", got)
	}
}

func TestSummarizeEmbedsModelFailure(t *testing.T) {
	t.Parallel()

	client := &fakeLLM{err: errors.New("backend unavailable")}
	svc := New(client)

	got := svc.Summarize(context.Background(), longText("discharge summary ", 200))
	if got != "Failed to generate summary: backend unavailable" {
		t.Fatalf("Summarize = %q", got)
	}
}
