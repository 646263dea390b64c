package entity

import "strings"

const (
	// DefaultPrompt подставляется, если вызывающий не передал prompt
	DefaultPrompt = "Please describe this image in detail."

	// NoDescriptionSentinel заглушка, которую провайдер может вернуть вместо ошибки
	NoDescriptionSentinel = "No description available."

	// OCRSeparator отделяет распознанный текст от описания
	OCRSeparator = "\n\nAdditionally, this is the output of tesseract-ocr: "
)

// ImagePayload изображение в base64 и его MIME-тип
type ImagePayload struct {
	Base64   string // данные в base64 (без префикса data:)
	MIMEType string // best-effort, проверяется только декодером
	Format   string // формат по данным декодера: png, jpeg, gif, webp, bmp, tiff
	Width    int    // ширина в пикселях
	Height   int    // высота в пикселях
}

// DescriptionRequest запрос на описание изображения
type DescriptionRequest struct {
	Image  string // base64
	Prompt string
}

// NewDescriptionRequest создаёт запрос и подставляет prompt по умолчанию
func NewDescriptionRequest(image, prompt string) DescriptionRequest {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	return DescriptionRequest{Image: image, Prompt: prompt}
}

// IsEmptyDescription true, если провайдер не вернул ничего полезного
func IsEmptyDescription(description string) bool {
	d := strings.TrimSpace(description)
	return d == "" || d == NoDescriptionSentinel
}

// MergeOCRText дописывает текст OCR к описанию
func MergeOCRText(description, ocrText string) string {
	if ocrText == "" {
		return description
	}
	return description + OCRSeparator + ocrText
}
