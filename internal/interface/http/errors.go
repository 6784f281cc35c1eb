package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

// respondError maps application errors onto status codes. Storage failures
// are logged and reported without detail.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		verr *application.ValidationError
		aerr *application.AuthError
		rerr *application.RejectError
	)
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.As(err, &aerr):
		response.Error[any](c, http.StatusUnauthorized, aerr.Message, nil)
	case errors.As(err, &rerr):
		response.Error[any](c, http.StatusBadRequest, rerr.Reason, gin.H{"error": rerr.Reason})
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("request_id", c.GetString(response.RequestIDKey)).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
