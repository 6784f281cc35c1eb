package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

const avatarField = "avatar"

type AvatarHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAvatarHandler(svc *application.Service, logger *logrus.Logger) *AvatarHandler {
	return &AvatarHandler{Svc: svc, Logger: logger}
}

// Upload reads the multipart "avatar" file. At most one byte past the limit
// is read so oversized files are refused without buffering them.
func (h *AvatarHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile(avatarField)
	if err != nil {
		respondError(c, h.Logger, &application.RejectError{Reason: "Please upload an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, int64(h.Svc.Avatars.MaxBytes())+1))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	sess, _ := middleware.CurrentSession(c)
	if err := h.Svc.SetAvatar(c.Request.Context(), sess.User, data, fh.Filename); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "avatar uploaded", nil)
}

func (h *AvatarHandler) Delete(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	if err := h.Svc.ClearAvatar(c.Request.Context(), sess.User); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Profile(sess.User), "avatar removed", nil)
}

// Get serves any user's avatar without authentication.
func (h *AvatarHandler) Get(c *gin.Context) {
	img, err := h.Svc.GetAvatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}
