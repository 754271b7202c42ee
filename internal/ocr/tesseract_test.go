package ocr

import (
	"context"
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{name: "default", opts: Options{}, want: []string{"stdin", "stdout"}},
		{name: "language", opts: Options{Language: "eng"}, want: []string{"stdin", "stdout", "-l", "eng"}},
		{name: "language trimmed", opts: Options{Language: " deu "}, want: []string{"stdin", "stdout", "-l", "deu"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := buildArgs(tt.opts)
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Fatalf("buildArgs(%+v) = %v, want %v", tt.opts, got, tt.want)
			}
		})
	}
}

func TestRecognizeRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	engine := NewTesseract("tesseract")
	if _, err := engine.Recognize(context.Background(), nil, Options{}); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
