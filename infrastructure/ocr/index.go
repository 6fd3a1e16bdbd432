package ocr

import (
	"context"
	"fmt"
	"sync"

	"campuspass.io/entities"
	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text on still frames through the tesseract
// binding. The client is not safe for concurrent use; the acquisition loop
// runs ticks sequentially but the mutex keeps misuse from corrupting state.
type TesseractEngine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

func NewTesseractEngine() *TesseractEngine {
	client := gosseract.NewClient()
	// Identifier cards carry digits and a handful of uppercase glyphs the
	// reconciliation pass knows how to repair.
	client.SetWhitelist("0123456789ABDGIOQSTZabcdefghijklmnopqrstuvwxyz: ")
	return &TesseractEngine{client: client}
}

func (t *TesseractEngine) Recognize(ctx context.Context, frame *entities.Frame) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := t.client.SetImageFromBytes(frame.Data); err != nil {
		return "", fmt.Errorf("loading frame into tesseract: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognition: %w", err)
	}
	return text, nil
}

func (t *TesseractEngine) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
