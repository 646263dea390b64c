package entity

import "errors"

// Ошибки описания изображений. Конкретные ошибки оборачивают их через %w.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrFetch         = errors.New("fetch error")
	ErrConfiguration = errors.New("configuration error")
	ErrEmptyResponse = errors.New("empty response")
	ErrOCR           = errors.New("OCR error")
)

// ErrorKind короткое имя класса ошибки для логов и метрик
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrFetch):
		return "fetch_error"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrOCR):
		return "ocr_error"
	default:
		return "error"
	}
}
