package port

import (
	"context"

	"vision-mcp/internal/domain/entity"
)

// ImageLoader загружает изображения и проверяет base64
type ImageLoader interface {
	// LoadFromPath читает файл и возвращает base64 и MIME-тип
	LoadFromPath(path string) (*entity.ImagePayload, error)

	// LoadFromURL скачивает изображение по URL
	LoadFromURL(ctx context.Context, url string) (*entity.ImagePayload, error)

	// IsValidImage проверяет, что строка декодируется в изображение. Никогда не паникует.
	IsValidImage(imageBase64 string) bool

	// Decode возвращает байты изображения из base64
	Decode(imageBase64 string) ([]byte, error)
}
