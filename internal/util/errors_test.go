package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sdo_backend/internal/model"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	nf := NotFoundErr("task", 9)
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.Equal(t, "task 9: not found", nf.Error())

	verr := NewValidationError("text", "must not be blank")
	assert.ErrorIs(t, verr, ErrValidation)
	var ve *ValidationError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", verr), &ve))
	assert.Equal(t, "text", ve.Field)

	terr := &TransitionError{From: model.StatusAccept, Action: model.ActionSubmit}
	assert.ErrorIs(t, terr, ErrInvalidTransition)
	assert.Equal(t, "cannot submit a task in status ACCEPT", terr.Error())
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", NotFoundErr("user", 1), http.StatusNotFound},
		{"validation", NewValidationError("title", "required"), http.StatusBadRequest},
		{"transition", &TransitionError{From: model.StatusNew, Action: model.ActionAccept}, http.StatusConflict},
		{"permission", ErrPermissionDenied, http.StatusForbidden},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Username: "ivanov", Role: model.RoleAdmin}
	user.ID = 3

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.True(t, claims.IsAdmin())

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}
