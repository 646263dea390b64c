package storage

import (
	"context"
	"sync"

	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей бота.
// Хранит копии, чтобы обработчики разных чатов не делили один *User.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return &user, nil
	}

	newUser := entity.NewUser(userID, chatID)

	r.mu.Lock()
	if existing, ok := r.users[userID]; ok {
		r.mu.Unlock()
		return &existing, nil
	}
	r.users[userID] = *newUser
	r.mu.Unlock()

	return newUser, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()

	return nil
}

// UpdatePrompt обновляет свой prompt пользователя
func (r *MemoryUserRepository) UpdatePrompt(ctx context.Context, userID int64, prompt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetPrompt(prompt)
		r.users[userID] = user
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
