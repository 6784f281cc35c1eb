package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/application"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &application.ValidationError{Fields: map[string]string{"age": "must be a positive number"}}, http.StatusBadRequest, "validation failed"},
		{"auth", application.ErrUnableToLogin, http.StatusUnauthorized, "Unable to login"},
		{"reject", &application.RejectError{Reason: "File too large"}, http.StatusBadRequest, "File too large"},
		{"not found", application.ErrNotFound, http.StatusNotFound, "not found"},
		{"storage", &application.StorageError{Op: "save user", Err: errors.New("dial tcp 10.0.0.1:5432: refused")}, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, logger, tt.err)

			require.Equal(t, tt.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["message"])
			assert.NotContains(t, w.Body.String(), "10.0.0.1")

			if tt.status == http.StatusInternalServerError {
				require.Len(t, hook.AllEntries(), 1)
				assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
			} else {
				assert.Empty(t, hook.AllEntries())
			}
		})
	}
}
