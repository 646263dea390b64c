//go:build gosseract
// +build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract распознаёт текст через libtesseract (cgo).
// Путь к бинарнику не используется: библиотека линкуется в процесс.
type Gosseract struct {
	Lang string
}

// NewEngine создаёт движок на gosseract
func NewEngine(_ string, lang string) Engine {
	return &Gosseract{Lang: lang}
}

// Name имя движка
func (g *Gosseract) Name() string {
	return "gosseract"
}

// Recognize распознаёт текст из байтов изображения
func (g *Gosseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if g.Lang != "" {
		if err := client.SetLanguage(g.Lang); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	return client.Text()
}
