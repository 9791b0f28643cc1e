package auth

import (
	"context"
	"errors"

	autherrors "otabridge/internal/auth/errors"
	"otabridge/internal/auth/repository"
	"otabridge/pkg/config"
)

// TokenProvider exchanges an API key for an opaque access token.
type TokenProvider interface {
	GetToken(ctx context.Context, apiKey string) string
}

type service struct {
	repo repository.CredentialRepository
	cfg  *config.Config
}

func NewService(repo repository.CredentialRepository, cfg *config.Config) TokenProvider {
	return &service{repo: repo, cfg: cfg}
}

// GetToken validates the key against the credential store and mints or
// reuses a token. Any failure (unknown key, inactive key, store error)
// yields ""; the caller reports it as an authentication error on the
// wire, never as a transport failure.
func (s *service) GetToken(ctx context.Context, apiKey string) string {
	if apiKey == "" {
		return ""
	}

	userID, err := s.repo.FindUserIDByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, autherrors.ErrKeyNotFound) || errors.Is(err, autherrors.ErrKeyInactive) {
			s.cfg.Log.Warn("Rejected api key", "reason", err.Error())
		} else {
			s.cfg.Log.Error("Credential store lookup failed", "error", err)
		}
		return ""
	}

	token, err := s.repo.FindOrCreateToken(ctx, userID, s.cfg.TokenTTL)
	if err != nil {
		s.cfg.Log.Error("Token issuance failed", "user_id", userID, "error", err)
		return ""
	}
	return token
}
