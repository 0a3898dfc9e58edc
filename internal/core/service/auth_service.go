package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/auvet/auth-service/internal/core/domain"
	"github.com/auvet/auth-service/internal/core/ports"
)

// AuthService implements the registration, login, and token validation
// workflow. All collaborators are injected; cache and events may be nil.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	cache  ports.UserCache
	events ports.AuthEventSink
	log    zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenCodec,
	cache ports.UserCache,
	events ports.AuthEventSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// RegisterTutor validates the payload, checks cpf/email availability, hashes
// the password, and persists the user plus tutor profile atomically.
func (s *AuthService) RegisterTutor(ctx context.Context, in domain.TutorRegistration) (*ports.RegisteredUser, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, err
	}

	cpf := domain.NormalizeCPF(in.CPF)
	s.log.Info().Str("cpf", cpf).Msg("registering tutor")

	if err := s.checkAvailability(ctx, cpf, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		CPF:          cpf,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		RegisteredAt: time.Now().UTC(),
	}
	profile := &domain.TutorProfile{
		Phone:   in.Phone,
		Address: in.Address,
		Clinics: in.Clinics,
	}

	if err := s.repo.CreateTutor(ctx, user, profile); err != nil {
		s.record(domain.ActionRegisterTutor, cpf, err)
		return nil, err
	}
	s.record(domain.ActionRegisterTutor, cpf, nil)

	s.log.Info().Str("cpf", cpf).Msg("tutor registered")
	return &ports.RegisteredUser{
		CPF:      cpf,
		Name:     in.Name,
		Email:    in.Email,
		UserType: domain.UserTypeTutor,
	}, nil
}

// RegisterEmployee is the employee counterpart of RegisterTutor. The profile
// is created active; an omitted access level defaults to
// domain.DefaultAccessLevel, while an explicit 0 is kept as 0.
func (s *AuthService) RegisterEmployee(ctx context.Context, in domain.EmployeeRegistration) (*ports.RegisteredUser, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, err
	}

	cpf := domain.NormalizeCPF(in.CPF)
	s.log.Info().Str("cpf", cpf).Msg("registering employee")

	if err := s.checkAvailability(ctx, cpf, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	level := domain.DefaultAccessLevel
	if in.AccessLevel != nil {
		level = *in.AccessLevel
	}

	user := &domain.User{
		CPF:          cpf,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		RegisteredAt: time.Now().UTC(),
	}
	profile := &domain.EmployeeProfile{
		Role:                     in.Role,
		ProfessionalRegistration: in.ProfessionalRegistration,
		AccessLevel:              level,
		Status:                   domain.EmployeeStatusActive,
	}

	if err := s.repo.CreateEmployee(ctx, user, profile); err != nil {
		s.record(domain.ActionRegisterEmployee, cpf, err)
		return nil, err
	}
	s.record(domain.ActionRegisterEmployee, cpf, nil)

	s.log.Info().Str("cpf", cpf).Msg("employee registered")
	return &ports.RegisteredUser{
		CPF:      cpf,
		Name:     in.Name,
		Email:    in.Email,
		UserType: domain.UserTypeEmployee,
	}, nil
}

// Login authenticates a user by cpf and password and issues a session token
// carrying the identity and access level derived from the attached profile.
func (s *AuthService) Login(ctx context.Context, cpf, password string) (*ports.LoginResult, error) {
	if cpf == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := s.repo.FindByCPF(ctx, domain.NormalizeCPF(cpf))
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.record(domain.ActionLogin, user.CPF, domain.ErrIncorrectPassword)
		return nil, domain.ErrIncorrectPassword
	}

	var (
		userType string
		extra    any
	)
	switch {
	case user.Employee != nil:
		if user.Employee.Status != domain.EmployeeStatusActive {
			s.record(domain.ActionLogin, user.CPF, domain.ErrEmployeeInactive)
			return nil, domain.ErrEmployeeInactive
		}
		userType = domain.UserTypeEmployee
		extra = ports.EmployeeData{
			Role:                     user.Employee.Role,
			ProfessionalRegistration: user.Employee.ProfessionalRegistration,
			Status:                   user.Employee.Status,
		}
	case user.Tutor != nil:
		userType = domain.UserTypeTutor
		extra = ports.TutorData{
			Phone:   user.Tutor.Phone,
			Address: user.Tutor.Address,
		}
	default:
		return nil, domain.ErrProfileMissing
	}
	perms := user.Permissions()

	token, err := s.tokens.Issue(domain.TokenClaims{
		CPF:         user.CPF,
		Email:       user.Email,
		UserType:    userType,
		AccessLevel: perms.AccessLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.record(domain.ActionLogin, user.CPF, nil)
	s.log.Info().Str("cpf", user.CPF).Str("user_type", userType).Msg("login succeeded")

	return &ports.LoginResult{
		Token: token,
		User: ports.AuthenticatedUser{
			CPF:            user.CPF,
			Name:           user.Name,
			Email:          user.Email,
			UserType:       userType,
			AdditionalData: extra,
		},
		Permissions: perms,
	}, nil
}

// ValidateToken verifies the signature and expiry, then re-fetches the user so
// an employee deactivated after issue time is rejected. UserType and
// AccessLevel are reported from the claims, name and email from the current
// record.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*ports.TokenIdentity, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByCPF(ctx, claims.CPF)
	if err != nil {
		return nil, err
	}

	if user.Employee != nil && user.Employee.Status != domain.EmployeeStatusActive {
		s.record(domain.ActionValidateToken, user.CPF, domain.ErrEmployeeInactive)
		return nil, domain.ErrEmployeeInactive
	}
	s.record(domain.ActionValidateToken, user.CPF, nil)

	return &ports.TokenIdentity{
		CPF:         user.CPF,
		Name:        user.Name,
		Email:       user.Email,
		UserType:    claims.UserType,
		AccessLevel: claims.AccessLevel,
	}, nil
}

// GetUserByCPF is a pure read. It consults the cache first when one is
// configured; cache failures degrade to a repository read.
func (s *AuthService) GetUserByCPF(ctx context.Context, cpf string) (*domain.User, error) {
	normalized := domain.NormalizeCPF(cpf)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, normalized)
		if err != nil {
			s.log.Warn().Err(err).Str("cpf", normalized).Msg("user cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByCPF(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.log.Warn().Err(err).Str("cpf", normalized).Msg("user cache write failed")
		}
	}
	return user, nil
}

// checkAvailability is the best-effort fast-fail before a create. The storage
// layer's unique constraints remain the authority; a racing insert surfaces
// the same conflict errors from the repository write.
func (s *AuthService) checkAvailability(ctx context.Context, cpf, email string) error {
	if _, err := s.repo.FindByCPF(ctx, cpf); err == nil {
		return domain.ErrCPFTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return nil
}

func (s *AuthService) record(action, cpf string, opErr error) {
	if s.events == nil {
		return
	}
	ev := domain.AuthEvent{
		CPF:       cpf,
		Action:    action,
		Success:   opErr == nil,
		Timestamp: time.Now().UTC(),
	}
	if opErr != nil {
		ev.Detail = opErr.Error()
	}
	s.events.Record(ev)
}
