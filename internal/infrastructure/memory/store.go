// Package memory keeps users and tasks in process memory. It mirrors the
// postgres repositories closely enough to back the application tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// Store holds both collections behind one lock.
type Store struct {
	mu    sync.Mutex
	users map[string]entity.User
	tasks map[string]entity.Task
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: map[string]entity.User{},
		tasks: map[string]entity.Task{},
		now:   time.Now,
	}
}

// Users returns a UserRepository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Tasks returns a TaskRepository view of the store.
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

type txKey struct{}

// WithinTx snapshots both collections and restores them if fn fails.
// There is no isolation: a rollback also discards writes other goroutines
// made while fn ran, so the store assumes a single writer per transaction.
// Nested calls join the outer one; AfterCommit callbacks run on success.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	users := cloneMap(s.users)
	tasks := cloneMap(s.tasks)
	s.mu.Unlock()

	txCtx, runCommitHooks := repository.WithCommitHooks(context.WithValue(ctx, txKey{}, true))
	if err := fn(txCtx); err != nil {
		s.mu.Lock()
		s.users, s.tasks = users, tasks
		s.mu.Unlock()
		return err
	}
	runCommitHooks(ctx)
	return nil
}

func cloneMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// copyUser detaches slices so callers never share backing arrays with the store.
func copyUser(u entity.User) entity.User {
	u.Tokens = slices.Clone(u.Tokens)
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
	u.Avatar = slices.Clone(u.Avatar)
	u.MarkPersisted()
	return u
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = copyUser(*u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyUser(u)
	return &out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = copyUser(*u)
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type TaskRepository struct {
	s *Store
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) FindByOwner(_ context.Context, ownerID string) ([]entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []entity.Task{}
	for _, t := range r.s.tasks {
		if t.Owner == ownerID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b entity.Task) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *TaskRepository) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.tasks {
		if t.Owner == ownerID {
			delete(r.s.tasks, id)
			n++
		}
	}
	return n, nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.TaskRepository = (*TaskRepository)(nil)
	_ repository.Transactor     = (*Store)(nil)
)
