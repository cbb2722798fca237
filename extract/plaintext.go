package extract

import (
	"context"
	"os"
	"strings"
)

// PlainTextBackend reads .txt documents directly.
type PlainTextBackend struct{}

func (b *PlainTextBackend) Name() string    { return "plaintext" }
func (b *PlainTextBackend) Library() string { return "os" }

func (b *PlainTextBackend) CanExtract(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".txt")
}

func (b *PlainTextBackend) Extract(ctx context.Context, req Request) (BackendResult, error) {
	raw, err := os.ReadFile(req.FilePath)
	if err != nil {
		return BackendResult{Success: false, Err: err.Error()}, err
	}
	text := string(raw)
	return BackendResult{
		Success:   true,
		Text:      text,
		PageCount: estimatePageCount(text),
		Method:    b.Name(),
		Library:   b.Library(),
	}, nil
}
