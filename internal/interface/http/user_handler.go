package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// field rules live in the identity store so every violation is reported together
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

var allowedUpdates = map[string]bool{"name": true, "email": true, "password": true, "age": true}

type authPayload struct {
	User  application.UserView `json:"user"`
	Token string               `json:"token"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, err := h.Svc.Register(c.Request.Context(), application.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, authPayload{User: h.Svc.Profile(u), Token: token}, "user registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, authPayload{User: h.Svc.Profile(u), Token: token}, "login successful", nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	if err := h.Svc.Logout(c.Request.Context(), sess); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) LogoutAll(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	if err := h.Svc.LogoutAll(c.Request.Context(), sess.User); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out of all sessions", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	response.Success(c, http.StatusOK, h.Svc.Profile(sess.User), "profile", nil)
}

// UpdateProfile accepts name, email, password and age; any other key rejects
// the whole request.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	for k := range keys {
		if !allowedUpdates[k] {
			response.Error[any](c, http.StatusBadRequest, "Invalid updates!", gin.H{"error": "Invalid updates!"})
			return
		}
	}
	var req updateProfileRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess, _ := middleware.CurrentSession(c)
	err = h.Svc.UpdateProfile(c.Request.Context(), sess.User, application.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Profile(sess.User), "profile updated", nil)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	if err := h.Svc.DeleteAccount(c.Request.Context(), sess.User); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Profile(sess.User), "account deleted", nil)
}
