package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/auvet/auth-service/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the Auth middleware and
// fast-fails before any service call: a non-empty user_type proves the
// middleware ran on this route.
func ctxClaims(c echo.Context) (domain.TokenClaims, error) {
	userType, _ := c.Get("user_type").(string)
	if userType == "" {
		return domain.TokenClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	cpf, _ := c.Get("cpf").(string)
	email, _ := c.Get("email").(string)
	accessLevel, _ := c.Get("access_level").(int)

	return domain.TokenClaims{
		CPF:         cpf,
		Email:       email,
		UserType:    userType,
		AccessLevel: accessLevel,
	}, nil
}
