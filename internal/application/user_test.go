package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/infrastructure/storage"
)

func TestUserService_BeginAnalysisAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginAnalysis(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSelfie, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetStateAndRecord(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)

	require.NoError(t, svc.RecordAnalysis(ctx, 2))
	user, err = svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, 1, user.Analyses)
}
