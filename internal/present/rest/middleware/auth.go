package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/brandproof/internal/present/rest/presenter"
	"github.com/totegamma/brandproof/internal/service"
)

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireToken rejects requests without the configured bearer token: 401
// when the header is missing or malformed, 403 when the token is wrong.
func (m *AuthMiddleware) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := m.auth.AuthBearer(c.Request().Context(), c.Request().Header.Get("authorization"))
		switch {
		case err == nil:
			return next(c)
		case errors.Is(err, service.ErrMissingToken):
			return presenter.Unauthorized(c, err.Error())
		default:
			return presenter.Forbidden(c, err.Error())
		}
	}
}
