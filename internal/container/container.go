// Package container holds the components built at startup. It replaces
// package-level singletons: main builds one Container and passes it down.
package container

import (
	"database/sql"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/cache"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	DB    *sql.DB
	Redis *redis.Client

	Users repository.UserRepository
	Tasks repository.TaskRepository
	Tx    repository.Transactor

	JWT      *helpers.JWTManager
	Hasher   *helpers.Hasher
	Notifier application.Notifier
}

// New wires postgres repositories. rdb may be nil, which disables the user
// cache; a nil notifier drops emails.
func New(cfg *config.Config, logger *logrus.Logger, db *sql.DB, rdb *redis.Client, notifier application.Notifier) *Container {
	var users repository.UserRepository = pginfra.NewUserRepository(db)
	if rdb != nil {
		users = cache.NewUserRepository(users, rdb, cfg.UserCacheTTL, logger)
	}
	return &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Redis:    rdb,
		Users:    users,
		Tasks:    pginfra.NewTaskRepository(db),
		Tx:       pginfra.NewTxManager(db),
		JWT:      helpers.NewJWTManager(cfg.JWTSecret),
		Hasher:   helpers.NewHasher(cfg.BcryptCost),
		Notifier: notifier,
	}
}

// NewInMemory wires the in-memory store instead of postgres.
func NewInMemory(cfg *config.Config, logger *logrus.Logger, notifier application.Notifier) *Container {
	store := memory.NewStore()
	return &Container{
		Config:   cfg,
		Logger:   logger,
		Users:    store.Users(),
		Tasks:    store.Tasks(),
		Tx:       store,
		JWT:      helpers.NewJWTManager(cfg.JWTSecret),
		Hasher:   helpers.NewHasher(cfg.BcryptCost),
		Notifier: notifier,
	}
}

// Service builds the application service over the container's components.
func (c *Container) Service() *application.Service {
	store := application.NewIdentityStore(c.Users, c.Tasks, c.Tx, c.Hasher, c.Logger)
	avatars := application.NewAvatarPipeline(store, c.Config.AvatarMaxBytes, c.Config.AvatarSize)
	return application.NewService(store, avatars, c.Tasks, c.JWT, c.Notifier, c.Logger)
}
