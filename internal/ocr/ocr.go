package ocr

import "context"

// Options controls a recognition run.
type Options struct {
	// Language is a tesseract language code, e.g. "eng". Empty means the
	// engine default.
	Language string
}

// Engine recognizes text in an image payload. Implementations wrap an
// external OCR tool; callers inject a double in tests.
type Engine interface {
	Recognize(ctx context.Context, data []byte, opts Options) (string, error)
}
