package application

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// NewUser carries registration input before validation.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// UserView is the only shape of a user that leaves the process.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IdentityStore owns user persistence: validation, password hashing before
// writes, and deleting a user together with the tasks they own.
type IdentityStore struct {
	users    repository.UserRepository
	tasks    repository.TaskRepository
	tx       repository.Transactor
	hasher   *helpers.Hasher
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewIdentityStore(users repository.UserRepository, tasks repository.TaskRepository, tx repository.Transactor, hasher *helpers.Hasher, logger *logrus.Logger) *IdentityStore {
	return &IdentityStore{
		users:    users,
		tasks:    tasks,
		tx:       tx,
		hasher:   hasher,
		validate: validation.New(),
		logger:   logger,
	}
}

// Create validates and persists a new user.
func (s *IdentityStore) Create(ctx context.Context, in NewUser) (*entity.User, error) {
	u := &entity.User{Name: in.Name, Email: in.Email, Age: in.Age, Tokens: []string{}}
	u.SetPassword(in.Password)
	if err := s.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByCredentials returns ErrUnableToLogin for an unknown email and for a
// wrong password alike.
func (s *IdentityStore) FindByCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnableToLogin
	}
	if err != nil {
		return nil, storageErr("find user by email", err)
	}
	if !s.hasher.Verify(password, u.Password) {
		return nil, ErrUnableToLogin
	}
	return u, nil
}

func (s *IdentityStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("find user", err)
	}
	return u, nil
}

// Save normalizes and validates u, hashes a pending plaintext password and
// writes the whole record. Users without an ID are inserted.
func (s *IdentityStore) Save(ctx context.Context, u *entity.User) error {
	normalize(u)
	if err := checkUser(s.validate, u); err != nil {
		return err
	}

	plain := u.Password
	if u.PasswordChanged() {
		hashed, err := s.hasher.Hash(plain)
		if err != nil {
			return &StorageError{Op: "hash password", Err: err}
		}
		u.Password = hashed
	}

	var err error
	if u.ID == "" {
		err = s.users.Create(ctx, u)
	} else {
		err = s.users.Update(ctx, u)
	}
	if err != nil {
		// keep the plaintext pending so a retry hashes it once
		u.Password = plain
		return storageErr("save user", err)
	}
	u.MarkPersisted()
	return nil
}

// Delete removes every task owned by u and then u itself, in one transaction.
func (s *IdentityStore) Delete(ctx context.Context, u *entity.User) error {
	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.tasks.DeleteByOwner(ctx, u.ID)
		if err != nil {
			return storageErr("delete tasks", err)
		}
		removed = n
		if err := s.users.Delete(ctx, u.ID); err != nil {
			return storageErr("delete user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	helpers.LogInfo(s.logger, "user deleted", logrus.Fields{"user_id": u.ID, "tasks_removed": removed})
	return nil
}

// SerializeForOutput drops the password, tokens and avatar.
func (s *IdentityStore) SerializeForOutput(u *entity.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
