package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
)

// Engine движок распознавания текста
type Engine interface {
	// Recognize возвращает сырой текст с изображения
	Recognize(ctx context.Context, image []byte) (string, error)

	// Name имя движка для логов
	Name() string
}

// Recognizer адаптер OCR поверх Engine
type Recognizer struct {
	engine Engine
	log    *slog.Logger
}

// NewRecognizer создаёт адаптер
func NewRecognizer(engine Engine, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{engine: engine, log: logger}
}

// ExtractText распознаёт текст.
// required=false: ошибка движка логируется как warning и превращается в "текст не найден".
// required=true: ошибка движка возвращается как entity.ErrOCR.
func (r *Recognizer) ExtractText(ctx context.Context, image []byte, required bool) (string, error) {
	text, err := r.engine.Recognize(ctx, image)
	if err != nil {
		if required {
			r.log.Error("OCR failed", "engine", r.engine.Name(), "err", err)
			return "", fmt.Errorf("%w: %v", entity.ErrOCR, err)
		}
		r.log.Warn("failed to extract text using tesseract", "engine", r.engine.Name(), "err", err)
		return "", nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		r.log.Info("no text found in image")
		return "", nil
	}

	r.log.Info("successfully extracted text from image", "engine", r.engine.Name())
	r.log.Debug("extracted text length", "length", len(text))
	return text, nil
}

// Проверка реализации интерфейса
var _ port.TextRecognizer = (*Recognizer)(nil)
