package router

import (
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/container"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
)

type UserModuleDeps struct {
	Service *application.Service
	Users   *handlers.UserHandler
	Avatars *handlers.AvatarHandler
	Tasks   *handlers.TaskHandler
}

func buildUserDeps(c *container.Container) UserModuleDeps {
	service := c.Service()
	return UserModuleDeps{
		Service: service,
		Users:   handlers.NewUserHandler(service, c.Logger),
		Avatars: handlers.NewAvatarHandler(service, c.Logger),
		Tasks:   handlers.NewTaskHandler(service, c.Logger),
	}
}

// InitModules builds every feature module from c and adds it to the registry.
// Call once at startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	deps := buildUserDeps(c)
	r.Add(modules.NewUserModule(deps.Users, deps.Avatars, deps.Tasks, deps.Service))
	r.Add(modules.NewHealthModule(c.DB, c.Redis))
}
