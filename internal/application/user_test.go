package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/infrastructure/storage"
)

func TestUserService_BeginAssessmentAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginAssessment(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateAwaitingPhoto)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)
}

func TestUserService_Processing(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	ok, err := svc.StartProcessing(ctx, 3, 30)
	require.NoError(t, err)
	require.True(t, ok)

	// Второе фото, пока идёт обработка, отклоняется
	ok, err = svc.StartProcessing(ctx, 3, 30)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, svc.FinishProcessing(ctx, 3, 30))
	user, err := svc.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	_, err = svc.BeginAssessment(ctx, 3, 30)
	require.NoError(t, err)
	ok, err = svc.StartProcessing(ctx, 3, 30)
	require.NoError(t, err)
	require.True(t, ok)
}
