package port

import (
	"context"
)

// ImageDescriber облачный провайдер, который описывает изображение по prompt
type ImageDescriber interface {
	// Describe возвращает текстовое описание изображения в base64
	Describe(ctx context.Context, imageBase64, prompt string) (string, error)

	// Name имя провайдера (anthropic, openai)
	Name() string
}

// DescriberFactory создаёт провайдера из конфигурации.
// Ошибка означает, что провайдера нельзя построить (например, нет ключа).
type DescriberFactory func() (ImageDescriber, error)
