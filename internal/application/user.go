package app

import (
	"context"

	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginPromptEdit ждёт от пользователя текст нового prompt
func (s *UserService) BeginPromptEdit(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPrompt)
}

// SetPrompt сохраняет свой prompt и возвращает в главное меню
func (s *UserService) SetPrompt(ctx context.Context, userID, chatID int64, prompt string) (*entity.User, error) {
	user, err := s.SetState(ctx, userID, chatID, entity.StateMainMenu)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePrompt(ctx, userID, prompt); err != nil {
		return nil, err
	}
	user.SetPrompt(prompt)

	return user, nil
}

// ResetPrompt возвращает prompt по умолчанию
func (s *UserService) ResetPrompt(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetPrompt(ctx, userID, chatID, "")
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
