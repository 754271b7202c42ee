package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Tesseract runs the tesseract binary over stdin/stdout.
type Tesseract struct {
	// Cmd is the binary to invoke. Empty means "tesseract" on PATH.
	Cmd string
}

// NewTesseract constructs a Tesseract engine using the given binary path.
func NewTesseract(cmd string) *Tesseract {
	return &Tesseract{Cmd: cmd}
}

// Recognize feeds the payload to tesseract and returns the recognized text.
func (t *Tesseract) Recognize(ctx context.Context, data []byte, opts Options) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty payload")
	}

	bin := strings.TrimSpace(t.Cmd)
	if bin == "" {
		bin = "tesseract"
	}

	args := buildArgs(opts)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("tesseract: %w", err)
		}
		return "", fmt.Errorf("tesseract: %s: %w", firstLine(msg), err)
	}

	return stdout.String(), nil
}

func buildArgs(opts Options) []string {
	args := []string{"stdin", "stdout"}
	if lang := strings.TrimSpace(opts.Language); lang != "" {
		args = append(args, "-l", lang)
	}
	return args
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var _ Engine = (*Tesseract)(nil)
