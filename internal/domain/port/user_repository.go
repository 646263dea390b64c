package port

import (
	"context"

	"vision-mcp/internal/domain/entity"
)

// UserRepository хранилище пользователей Telegram-бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет пользователя
	Save(ctx context.Context, user *entity.User) error

	// UpdatePrompt меняет свой prompt пользователя
	UpdatePrompt(ctx context.Context, userID int64, prompt string) error
}
