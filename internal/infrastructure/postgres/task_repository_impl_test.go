package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

func TestTaskRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+tasks\s*\(description,\s*completed,\s*owner\)`).
		WithArgs("buy milk", false, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("t-1", now, now))

	task := &entity.Task{Description: "buy milk", Owner: "u-1"}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, "t-1", task.ID)
}

func TestTaskRepository_FindByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+tasks\s+WHERE\s+owner\s*=\s*\$1\s+ORDER\s+BY\s+created_at`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "completed", "owner", "created_at", "updated_at"}).
			AddRow("t-1", "a", false, "u-1", now, now).
			AddRow("t-2", "b", true, "u-1", now, now))

	tasks, err := repo.FindByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t-2", tasks[1].ID)
	assert.True(t, tasks[1].Completed)
}

func TestTaskRepository_FindByOwner_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`FROM\s+tasks`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "completed", "owner", "created_at", "updated_at"}))

	tasks, err := repo.FindByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRepository_DeleteByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(`^DELETE\s+FROM\s+tasks\s+WHERE\s+owner\s*=\s*\$1$`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestTaskRepository_DeleteByOwner_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(`DELETE\s+FROM\s+tasks`).WillReturnError(errors.New("db down"))

	_, err := repo.DeleteByOwner(context.Background(), "u-1")
	assert.Error(t, err)
}
