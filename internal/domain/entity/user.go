package entity

import "strings"

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu       UserState = "main_menu"       // В главном меню
	StateAwaitingPrompt UserState = "awaiting_prompt" // Ожидание своего prompt
	StateProcessing     UserState = "processing"      // Обработка изображения
)

// User представляет пользователя Telegram-бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
	Prompt string    // Свой prompt для описаний, пусто = по умолчанию
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetPrompt сохраняет свой prompt пользователя
func (u *User) SetPrompt(prompt string) {
	u.Prompt = strings.TrimSpace(prompt)
}

// EffectivePrompt возвращает prompt пользователя или prompt по умолчанию
func (u *User) EffectivePrompt() string {
	if u.Prompt == "" {
		return DefaultPrompt
	}
	return u.Prompt
}
