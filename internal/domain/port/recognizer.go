package port

import "context"

// TextRecognizer адаптер OCR.
// При required=false ошибки движка проглатываются и возвращается пустая строка.
// При required=true ошибка движка возвращается как entity.ErrOCR.
// Пустая строка без ошибки означает, что текст не найден.
type TextRecognizer interface {
	ExtractText(ctx context.Context, image []byte, required bool) (string, error)
}
