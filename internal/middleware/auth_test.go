package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"aarogya/internal/auth"
	"aarogya/internal/model"
)

func contextWithClaims(role model.Role) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &jwt.Token{Claims: &auth.Claims{UserID: uuid.New(), Role: role}})
	return c
}

func TestCurrentClaims(t *testing.T) {
	t.Run("returns the claims set by the JWT middleware", func(t *testing.T) {
		c := contextWithClaims(model.RoleLab)

		claims, err := CurrentClaims(c)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleLab, claims.Role)
		assert.NotEqual(t, uuid.Nil, claims.UserID)
	})

	t.Run("fails without a parsed token in the context", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		_, err := CurrentClaims(c)
		var httpErr *echo.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	tests := []struct {
		name         string
		allowed      []model.Role
		callerRole   model.Role
		expectedCode int
	}{
		{
			name:         "allowed role passes through",
			allowed:      []model.Role{model.RoleLab},
			callerRole:   model.RoleLab,
			expectedCode: http.StatusOK,
		},
		{
			name:         "any of several allowed roles passes",
			allowed:      []model.Role{model.RoleDoctor, model.RolePatient},
			callerRole:   model.RolePatient,
			expectedCode: http.StatusOK,
		},
		{
			name:         "wrong role is forbidden",
			allowed:      []model.Role{model.RoleAdmin},
			callerRole:   model.RoleDoctor,
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := contextWithClaims(tt.callerRole)
			err := RequireRoles(tt.allowed...)(next)(c)

			if tt.expectedCode == http.StatusOK {
				assert.NoError(t, err)
			} else {
				var httpErr *echo.HTTPError
				assert.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedCode, httpErr.Code)
			}
		})
	}
}
