//go:build !gosseract
// +build !gosseract

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractCLI запускает бинарник tesseract: изображение в stdin, текст из stdout.
type TesseractCLI struct {
	Cmd  string // путь к бинарнику (TESSERACT_CMD)
	Lang string // необязательный -l
}

// NewEngine создаёт движок по умолчанию
func NewEngine(cmd, lang string) Engine {
	if strings.TrimSpace(cmd) == "" {
		cmd = "tesseract"
	}
	return &TesseractCLI{Cmd: cmd, Lang: lang}
}

// Name имя движка
func (t *TesseractCLI) Name() string {
	return "tesseract"
}

// Recognize запускает tesseract stdin stdout
func (t *TesseractCLI) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	args := []string{"stdin", "stdout"}
	if t.Lang != "" {
		args = append(args, "-l", t.Lang)
	}

	cmd := exec.CommandContext(ctx, t.Cmd, args...) // #nosec G204 - путь к бинарнику из конфигурации
	cmd.Stdin = bytes.NewReader(image)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("run %s: %w: %s", t.Cmd, err, msg)
		}
		return "", fmt.Errorf("run %s: %w", t.Cmd, err)
	}
	return out.String(), nil
}
