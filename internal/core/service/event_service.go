package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/auvet/auth-service/internal/core/domain"
	"github.com/auvet/auth-service/internal/core/ports"
)

type authEventService struct {
	repo ports.AuthEventRepository
	log  zerolog.Logger
}

// NewAuthEventService returns the AuthEventService that persists audit events
// handed over by the dispatcher.
func NewAuthEventService(repo ports.AuthEventRepository, log zerolog.Logger) ports.AuthEventService {
	return &authEventService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *authEventService) Process(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	s.log.Debug().
		Str("cpf", event.CPF).
		Str("action", event.Action).
		Bool("success", event.Success).
		Msg("auth event recorded")

	return nil
}
