// Package cache decorates repositories with a redis read-through cache.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

const (
	userKeyPrefix    = "user:cache:"
	versionKeyPrefix = "user:cache:ver:"

	// versionTTL must outlive any read that races an invalidation.
	versionTTL = 24 * time.Hour
)

func userKey(id string) string    { return userKeyPrefix + id }
func versionKey(id string) string { return versionKeyPrefix + id }

// errStaleFill aborts a fill whose source read overlapped an invalidation.
var errStaleFill = errors.New("user changed while loading")

// cachedUser is the redis representation. The entity keeps its dirty flag
// unexported, so a dedicated shape is stored instead.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Password  string    `json:"password"`
	Tokens    []string  `json:"tokens"`
	Avatar    []byte    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func fromEntity(u *entity.User) cachedUser {
	return cachedUser{
		ID: u.ID, Name: u.Name, Email: u.Email, Age: u.Age,
		Password: u.Password, Tokens: u.Tokens, Avatar: u.Avatar,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (c cachedUser) toEntity() *entity.User {
	tokens := c.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	return &entity.User{
		ID: c.ID, Name: c.Name, Email: c.Email, Age: c.Age,
		Password: c.Password, Tokens: tokens, Avatar: c.Avatar,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

// UserRepository caches lookups by ID. Writes go to the inner repository
// and drop the cached entry once the enclosing transaction commits. Every
// invalidation bumps a per-user version; a miss only fills the cache if the
// version it saw before reading is still current. Redis failures are logged
// and treated as misses.
type UserRepository struct {
	inner  repository.UserRepository
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *logrus.Logger
}

// NewUserRepository wraps inner. A nil rdb disables caching.
func NewUserRepository(inner repository.UserRepository, rdb redis.UniversalClient, ttl time.Duration, logger *logrus.Logger) repository.UserRepository {
	if rdb == nil {
		return inner
	}
	return &UserRepository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.inner.Create(ctx, u)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var cu cachedUser
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, userKey(id), &cu)
	if err != nil {
		helpers.LogError(r.logger, "user cache read failed", err, logrus.Fields{"user_id": id})
	}
	if hit {
		return cu.toEntity(), nil
	}

	ver, verErr := readVersion(ctx, r.rdb, id)
	if verErr != nil {
		helpers.LogError(r.logger, "user cache version read failed", verErr, logrus.Fields{"user_id": id})
	}

	u, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if verErr == nil {
		r.fill(ctx, u, ver)
	}
	return u, nil
}

// fill stores u unless the user was invalidated after ver was read.
func (r *UserRepository) fill(ctx context.Context, u *entity.User, ver int64) {
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readVersion(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		if cur != ver {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			return helpers.RedisSetJSON(ctx, p, userKey(u.ID), fromEntity(u), r.ttl)
		})
		return err
	}, versionKey(u.ID))

	switch {
	case err == nil, errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
	default:
		helpers.LogError(r.logger, "user cache write failed", err, logrus.Fields{"user_id": u.ID})
	}
}

// getter is satisfied by both the client and a watched *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, rdb getter, id string) (int64, error) {
	v, err := rdb.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// GetByEmail always reads through; login must see the current password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.inner.GetByEmail(ctx, email)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := r.inner.Update(ctx, u); err != nil {
		return err
	}
	id := u.ID
	repository.AfterCommit(ctx, func(ctx context.Context) { r.invalidate(ctx, id) })
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	repository.AfterCommit(ctx, func(ctx context.Context) { r.invalidate(ctx, id) })
	return nil
}

// invalidate bumps the version before dropping the entry so in-flight fills abort.
func (r *UserRepository) invalidate(ctx context.Context, id string) {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, versionKey(id))
		p.Expire(ctx, versionKey(id), versionTTL)
		return helpers.RedisDel(ctx, p, userKey(id))
	})
	if err != nil {
		helpers.LogError(r.logger, "user cache invalidate failed", err, logrus.Fields{"user_id": id})
	}
}
