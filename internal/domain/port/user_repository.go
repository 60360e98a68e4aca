package port

import (
	"context"

	"face-assess-bot/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// Transition атомарно меняет состояние from → to; false, если текущее состояние другое
	Transition(ctx context.Context, userID int64, from, to entity.UserState) (bool, error)
}
