package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/webshop/internal/hash"
	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/metrics"
	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/mykafka"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/tokens"
	"github.com/Skotchmaster/webshop/internal/transport"
)

type AuthService struct {
	Store   repo.CredentialStore
	Access  *tokens.Codec
	Refresh *tokens.Codec
	Events  mykafka.Publisher
	Metrics *metrics.Metrics
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.AuthToken, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		s.Metrics.AuthOutcome("login", "invalid_request")
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Store.FindUserByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			s.Metrics.AuthOutcome("login", "unauthorized")
			return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		l.Error("login_failed", "reason", "cannot look up user", "error", err)
		s.Metrics.AuthOutcome("login", "error")
		return nil, err
	}

	tok, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		s.Metrics.AuthOutcome("login", "error")
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicAuthEvents, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})
	l.Info("login_success", "user_id", user.ID)
	s.Metrics.AuthOutcome("login", "success")
	return tok, nil
}

// IssueTokenPair signs a fresh access and refresh token and makes the new refresh
// token the only one stored for the user.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *models.User) (*transport.AuthToken, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue", "user_id", user.ID)

	access, accessClaims, err := s.Access.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		l.Error("issue_failed", "reason", "cannot sign access token", "error", err)
		return nil, err
	}
	refresh, refreshClaims, err := s.Refresh.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		l.Error("issue_failed", "reason", "cannot sign refresh token", "error", err)
		return nil, err
	}

	rt := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash.Token(refresh),
		ExpiresAt: refreshClaims.ExpiresAt.Time,
	}
	if err := s.Store.ReplaceRefreshToken(ctx, rt); err != nil {
		l.Error("issue_failed", "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	return &transport.AuthToken{
		BearerToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessClaims.ExpiresAt.Unix(),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, presented string) (*transport.AuthToken, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if presented == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "no refresh token")
		s.Metrics.AuthOutcome("refresh", "empty")
		return nil, ErrTokenEmpty
	}

	claims, err := s.Refresh.Decode(presented)
	if err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			l.Warn("refresh_failed", "status", 401, "reason", "refresh token expired")
			s.Metrics.AuthOutcome("refresh", "expired")
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token rejected", "error", err)
		s.Metrics.AuthOutcome("refresh", "invalid")
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "userId claim is not a uuid")
		s.Metrics.AuthOutcome("refresh", "invalid")
		return nil, fmt.Errorf("%w: bad userId claim", ErrTokenInvalid)
	}
	l = l.With("user_id", userID)

	stored, err := s.Store.FindRefreshToken(ctx, presented)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "refresh token superseded or logged out")
			s.Metrics.AuthOutcome("refresh", "invalid")
			return nil, fmt.Errorf("%w: refresh token is not live", ErrTokenInvalid)
		}
		l.Error("refresh_failed", "reason", "cannot look up refresh token", "error", err)
		s.Metrics.AuthOutcome("refresh", "error")
		return nil, err
	}
	if stored.UserID != userID {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token owner mismatch")
		s.Metrics.AuthOutcome("refresh", "invalid")
		return nil, fmt.Errorf("%w: owner mismatch", ErrTokenInvalid)
	}

	user, err := s.Store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 400, "reason", "user no longer exists")
			s.Metrics.AuthOutcome("refresh", "user_not_found")
			return nil, ErrUserNotFound
		}
		l.Error("refresh_failed", "reason", "cannot look up user", "error", err)
		s.Metrics.AuthOutcome("refresh", "error")
		return nil, err
	}

	tok, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		s.Metrics.AuthOutcome("refresh", "error")
		return nil, err
	}

	l.Info("refresh_success")
	s.Metrics.AuthOutcome("refresh", "success")
	return tok, nil
}

// LogOut deletes the stored token without verifying it. A token that is not
// stored is reported as ErrAlreadyInvalidated.
func (s *AuthService) LogOut(ctx context.Context, presented string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if presented == "" {
		l.Warn("logout_failed", "status", 401, "reason", "no token")
		s.Metrics.AuthOutcome("logout", "empty")
		return ErrTokenEmpty
	}

	stored, err := s.Store.FindRefreshToken(ctx, presented)
	if err == nil {
		err = s.Store.DeleteRefreshToken(ctx, stored)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("logout_failed", "status", 400, "reason", "token already invalidated")
			s.Metrics.AuthOutcome("logout", "already_invalidated")
			return ErrAlreadyInvalidated
		}
		l.Error("logout_failed", "reason", "cannot delete refresh token", "error", err)
		s.Metrics.AuthOutcome("logout", "error")
		return err
	}

	publish(ctx, s.Events, mykafka.TopicAuthEvents, stored.UserID.String(), map[string]any{
		"type":   "user_logged_out",
		"userID": stored.UserID,
	})
	l.Info("logout_success", "user_id", stored.UserID)
	s.Metrics.AuthOutcome("logout", "success")
	return nil
}

// Authenticate verifies an access token. Failures other than a bad signature or
// expiry are logged and reported as StatusInvalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*tokens.Claims, models.ErrorStatus) {
	if token == "" {
		return nil, models.StatusEmpty
	}

	claims, err := s.Access.Decode(token)
	switch {
	case err == nil:
	case errors.Is(err, tokens.ErrExpired):
		return nil, models.StatusExpired
	case errors.Is(err, tokens.ErrInvalidSignature), errors.Is(err, tokens.ErrMalformed):
		return nil, models.StatusInvalid
	default:
		logging.FromContext(ctx).Warn("authenticate_failed", "reason", "unrecognized token error", "error", err)
		return nil, models.StatusInvalid
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		logging.FromContext(ctx).Warn("authenticate_failed", "reason", "userId claim is not a uuid")
		return nil, models.StatusInvalid
	}
	switch claims.Role {
	case models.RoleUser, models.RoleAdmin:
	default:
		logging.FromContext(ctx).Warn("authenticate_failed", "reason", "unknown role", "role", claims.Role)
		return nil, models.StatusInvalid
	}
	return claims, models.StatusNone
}
