package postgres

import (
	"context"
	"database/sql"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := querier(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO tasks (description, completed, owner)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, t.Description, t.Completed, t.Owner)

	return mapErr(row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *TaskRepository) FindByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	rows, err := querier(ctx, r.db).QueryContext(ctx, `
		SELECT id, description, completed, owner, created_at, updated_at
		FROM tasks
		WHERE owner = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []entity.Task{}
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.Owner, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return tasks, nil
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := querier(ctx, r.db).ExecContext(ctx, `DELETE FROM tasks WHERE owner = $1`, ownerID)
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
