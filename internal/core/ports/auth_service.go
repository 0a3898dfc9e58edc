package ports

import (
	"context"

	"github.com/auvet/auth-service/internal/core/domain"
)

// RegisteredUser is the public view of a freshly registered account.
type RegisteredUser struct {
	CPF      string `json:"cpf"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// TutorData is the profile-specific payload returned on tutor login.
type TutorData struct {
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// EmployeeData is the profile-specific payload returned on employee login.
type EmployeeData struct {
	Role                     string  `json:"role"`
	ProfessionalRegistration *string `json:"professional_registration"`
	Status                   string  `json:"status"`
}

// AuthenticatedUser describes the logged-in user. AdditionalData holds either
// TutorData or EmployeeData depending on the attached profile.
type AuthenticatedUser struct {
	CPF            string `json:"cpf"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	UserType       string `json:"user_type"`
	AdditionalData any    `json:"additional_data"`
}

// LoginResult is the full login response: bearer token, user view, and the
// derived permission set.
type LoginResult struct {
	Token       string             `json:"token"`
	User        AuthenticatedUser  `json:"user"`
	Permissions domain.Permissions `json:"permissions"`
}

// TokenIdentity is the result of a successful token validation. UserType and
// AccessLevel come from the token claims; Name and Email from the current
// user record.
type TokenIdentity struct {
	CPF         string `json:"cpf"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	UserType    string `json:"user_type"`
	AccessLevel int    `json:"access_level"`
}

// AuthService is the registration, login, and token validation workflow.
type AuthService interface {
	RegisterTutor(ctx context.Context, in domain.TutorRegistration) (*RegisteredUser, error)
	RegisterEmployee(ctx context.Context, in domain.EmployeeRegistration) (*RegisteredUser, error)
	Login(ctx context.Context, cpf, password string) (*LoginResult, error)
	ValidateToken(ctx context.Context, token string) (*TokenIdentity, error)
	GetUserByCPF(ctx context.Context, cpf string) (*domain.User, error)
}
