package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskRepository is the slice of task storage the identity core depends on.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	FindByOwner(ctx context.Context, ownerID string) ([]entity.Task, error)
	// DeleteByOwner removes every task owned by ownerID and returns how many went.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// Transactor runs fn so that repository calls made with the supplied context
// commit or roll back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
