package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	u := &entity.User{Name: "Ann", Email: "a@x.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	assert.ErrorIs(t, users.Create(ctx, &entity.User{Email: "a@x.com"}), repository.ErrDuplicate)

	got, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got.AddToken("t1")
	require.NoError(t, users.Update(ctx, got))

	again, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, again.Tokens)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, u.ID), repository.ErrNotFound)
}

func TestUserRepository_ReturnsDetachedCopies(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()
	u := &entity.User{Name: "Ann", Email: "a@x.com", Tokens: []string{"t1"}}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Tokens[0] = "changed"

	again, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, again.Tokens)
}

func TestTaskRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	tasks := NewStore().Tasks()

	for _, owner := range []string{"a", "a", "b"} {
		require.NoError(t, tasks.Create(ctx, &entity.Task{Description: "x", Owner: owner}))
	}

	got, err := tasks.FindByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	n, err := tasks.DeleteByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err = tasks.FindByOwner(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_WithinTxRestoresOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Tasks().Create(ctx, &entity.Task{Owner: "a"}))

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Tasks().DeleteByOwner(ctx, "a"); err != nil {
			return err
		}
		return errors.New("user delete failed")
	})
	require.Error(t, err)

	got, err := s.Tasks().FindByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_WithinTxRunsCommitHooksOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	committed := 0
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context) error {
		repository.AfterCommit(ctx, func(context.Context) { committed++ })
		return s.WithinTx(ctx, func(ctx context.Context) error {
			repository.AfterCommit(ctx, func(context.Context) { committed++ })
			assert.Zero(t, committed)
			return nil
		})
	}))
	assert.Equal(t, 2, committed)

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		repository.AfterCommit(ctx, func(context.Context) { committed++ })
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 2, committed)
}
