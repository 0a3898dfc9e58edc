package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/auvet/auth-service/internal/api/metrics"
	"github.com/auvet/auth-service/internal/core/domain"
	"github.com/auvet/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterTutor creates a tutor account.
//
// @Summary      Register a tutor
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerTutorRequest  true  "Tutor registration details"
// @Success      201   {object}  ports.RegisteredUser
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register/tutor [post]
func (h *AuthHandler) RegisterTutor(c echo.Context) error {
	var req registerTutorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.RegisterTutor(c.Request().Context(), domain.TutorRegistration{
		CPF:      req.CPF,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Clinics:  req.Clinics,
	})
	metrics.RegistrationsTotal.WithLabelValues(domain.UserTypeTutor, resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// RegisterEmployee creates an employee account.
//
// @Summary      Register an employee
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerEmployeeRequest  true  "Employee registration details"
// @Success      201   {object}  ports.RegisteredUser
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register/employee [post]
func (h *AuthHandler) RegisterEmployee(c echo.Context) error {
	var req registerEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.RegisterEmployee(c.Request().Context(), domain.EmployeeRegistration{
		CPF:                      req.CPF,
		Name:                     req.Name,
		Email:                    req.Email,
		Password:                 req.Password,
		Role:                     req.Role,
		ProfessionalRegistration: req.ProfessionalRegistration,
		AccessLevel:              req.AccessLevel,
	})
	metrics.RegistrationsTotal.WithLabelValues(domain.UserTypeEmployee, resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// Login authenticates by cpf and password, returning a bearer token, the user
// view, and the derived permission set.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.LoginResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.authService.Login(c.Request().Context(), req.CPF, req.Password)
	metrics.LoginDuration.Observe(time.Since(start).Seconds())
	metrics.LoginsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ValidateToken verifies a session token and returns the identity it asserts.
//
// @Summary      Validate a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      validateTokenRequest  true  "Token to validate"
// @Success      200   {object}  ports.TokenIdentity
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/validate-token [post]
func (h *AuthHandler) ValidateToken(c echo.Context) error {
	var req validateTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.ValidateToken(c.Request().Context(), req.Token)
	metrics.TokenValidationsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// GetUser returns a user with its attached profile. Employee-only route.
//
// @Summary      Look up a user by cpf
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        cpf  path      string  true  "User cpf"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/users/{cpf} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	cpf := c.Param("cpf")
	if strings.TrimSpace(cpf) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cpf not provided")
	}

	user, err := h.authService.GetUserByCPF(c.Request().Context(), cpf)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
