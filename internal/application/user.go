package app

import (
	"context"

	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/domain/port"
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

func (s *UserService) BeginAssessment(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// StartProcessing переводит пользователя в обработку. Возвращает false, если
// фото этого пользователя уже обрабатывается.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (bool, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return false, err
	}
	if user.IsBusy() {
		return false, nil
	}
	return s.repo.Transition(ctx, userID, user.State, entity.StateProcessing)
}

// FinishProcessing возвращает пользователя в главное меню.
func (s *UserService) FinishProcessing(ctx context.Context, userID, chatID int64) error {
	_, err := s.SetState(ctx, userID, chatID, entity.StateMainMenu)
	return err
}
