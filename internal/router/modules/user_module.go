package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
)

// UserModule wires account, avatar and task routes.
// Public: POST /users, POST /users/login, GET /users/:id/avatar
// Protected: everything under /users/me plus logout and logoutAll
type UserModule struct {
	Users    *handlers.UserHandler
	Avatars  *handlers.AvatarHandler
	Tasks    *handlers.TaskHandler
	Sessions middleware.SessionResolver
}

func NewUserModule(users *handlers.UserHandler, avatars *handlers.AvatarHandler, tasks *handlers.TaskHandler, sessions middleware.SessionResolver) *UserModule {
	return &UserModule{Users: users, Avatars: avatars, Tasks: tasks, Sessions: sessions}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	users.POST("", m.Users.Register)
	users.POST("/login", m.Users.Login)
	users.GET("/:id/avatar", m.Avatars.Get)

	auth := users.Group("")
	auth.Use(middleware.Auth(m.Sessions))
	{
		auth.POST("/logout", m.Users.Logout)
		auth.POST("/logoutAll", m.Users.LogoutAll)

		auth.GET("/me", m.Users.GetProfile)
		auth.PATCH("/me", m.Users.UpdateProfile)
		auth.DELETE("/me", m.Users.DeleteAccount)

		auth.POST("/me/avatar", m.Avatars.Upload)
		auth.DELETE("/me/avatar", m.Avatars.Delete)

		auth.GET("/me/tasks", m.Tasks.ListMine)
	}
}
