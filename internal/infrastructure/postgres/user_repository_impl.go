package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

const userColumns = `id, name, email, age, password_hash, tokens, avatar, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	tokens, err := encodeTokens(u.Tokens)
	if err != nil {
		return err
	}
	row := querier(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO users (name, email, age, password_hash, tokens, avatar)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Age, u.Password, tokens, u.Avatar)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := querier(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := querier(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

// Update overwrites the whole record.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	tokens, err := encodeTokens(u.Tokens)
	if err != nil {
		return err
	}
	row := querier(ctx, r.db).QueryRowContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, age = $3, password_hash = $4, tokens = $5, avatar = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, u.Name, u.Email, u.Age, u.Password, tokens, u.Avatar, u.ID)

	return mapErr(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := querier(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*entity.User, error) {
	u := &entity.User{}
	var tokens []byte
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.Password, &tokens, &u.Avatar,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	if err := json.Unmarshal(tokens, &u.Tokens); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
	return u, nil
}

func encodeTokens(tokens []string) (string, error) {
	if tokens == nil {
		tokens = []string{}
	}
	b, err := json.Marshal(tokens)
	if err != nil {
		return "", fmt.Errorf("encode tokens: %w", err)
	}
	return string(b), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
