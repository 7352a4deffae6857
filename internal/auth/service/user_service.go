package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/S1mon009/auth-service/config"
	"github.com/S1mon009/auth-service/internal/auth/domain"
	"github.com/S1mon009/auth-service/internal/auth/dto"
	autherror "github.com/S1mon009/auth-service/internal/errors"
	"github.com/S1mon009/auth-service/internal/metrics"
	"github.com/S1mon009/auth-service/pkg/constant"
)

// emailTimeout bounds outbound mail delivery so a slow transport cannot
// stall the response path. Failures are logged and swallowed.
const emailTimeout = 5 * time.Second

// UserService orchestrates the credential and token lifecycle: registration,
// email verification, login, refresh rotation and password reset.
type UserService struct {
	repo    domain.UserRepository
	tokens  TokenGenerator
	hasher  PasswordHasher
	mailer  domain.Mailer
	audit   domain.AuditRecorder
	metrics metrics.Recorder
	cfg     *config.Config
}

func NewUserService(
	repo domain.UserRepository,
	tokens TokenGenerator,
	hasher PasswordHasher,
	mailer domain.Mailer,
	audit domain.AuditRecorder,
	m metrics.Recorder,
	cfg *config.Config,
) *UserService {
	if audit == nil {
		audit = noopRecorder{}
	}
	if m == nil {
		m = metrics.Noop{}
	}

	return &UserService{
		repo:    repo,
		tokens:  tokens,
		hasher:  hasher,
		mailer:  mailer,
		audit:   audit,
		metrics: m,
		cfg:     cfg,
	}
}

// Register creates an unverified user with an empty profile and dispatches a
// verification email. The audit event is emitted only after the records are
// persisted.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	profile := &domain.Profile{
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, user.ID, constant.ActionUserCreated, input.IPAddress)
	s.metrics.RecordRegistration()

	s.sendVerificationEmail(ctx, user)

	return user, nil
}

func (s *UserService) sendVerificationEmail(ctx context.Context, user *domain.User) {
	token, err := s.tokens.GenerateActionToken(user.ID, user.Email, PurposeVerifyEmail,
		time.Duration(s.cfg.VerifyExpiryMin)*time.Minute)
	if err != nil {
		slog.Error("failed to generate verification token",
			slog.String("user_id", user.ID), slog.String("error", err.Error()))
		return
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
	defer cancel()

	if err := s.mailer.SendVerificationEmail(mailCtx, user.Email, token); err != nil {
		slog.Warn("failed to send verification email",
			slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}
}

// VerifyEmail marks the token's subject as verified. Repeat calls succeed
// and report alreadyVerified without mutating or re-auditing.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error) {
	claims, err := s.tokens.VerifyActionToken(token, PurposeVerifyEmail)
	if err != nil {
		return false, autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, autherror.ErrUserNotFound
	}

	if user.IsVerified {
		return true, nil
	}

	if err := s.repo.SetVerified(ctx, user.ID); err != nil {
		return false, err
	}

	s.audit.Record(ctx, user.ID, constant.ActionUserEmailVerified, "")
	s.metrics.RecordEmailVerified()

	return false, nil
}

// ValidateUser checks the credentials for login. Unknown email and wrong
// password yield the same error so callers cannot enumerate accounts; an
// unverified account is reported distinctly.
func (s *UserService) ValidateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		s.metrics.RecordLoginFailure("invalid_credentials")
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsVerified {
		s.metrics.RecordLoginFailure("email_not_verified")
		return nil, autherror.ErrEmailNotVerified
	}

	return user, nil
}

// Login issues a token pair and persists the refresh token into the user's
// single slot, superseding any refresh token from an earlier session.
func (s *UserService) Login(ctx context.Context, user *domain.User, ip string) (*dto.TokenResponse, error) {
	accessToken, refreshToken, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, user.ID, constant.ActionUserLoggedIn, ip)
	s.metrics.RecordLogin()

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: &dto.LoginUserOutput{
			ID:    user.ID,
			Email: user.Email,
			Role:  string(user.Role),
		},
	}, nil
}

// Refresh rotates the token pair. The old token must verify against the
// refresh secret and exactly match the stored slot; the swap itself is
// conditional on the stored value, so a replayed or superseded token fails
// deterministically even under concurrent attempts.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	claims, err := s.tokens.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		s.metrics.RecordRefreshFailure()
		return nil, autherror.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshToken == nil || *user.RefreshToken != input.RefreshToken {
		s.metrics.RecordRefreshFailure()
		return nil, autherror.ErrInvalidRefreshToken
	}

	accessToken, newRefreshToken, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	rotated, err := s.repo.RotateRefreshToken(ctx, user.ID, input.RefreshToken, newRefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// Lost the race against a concurrent rotation or login.
		s.metrics.RecordRefreshFailure()
		return nil, autherror.ErrInvalidRefreshToken
	}

	s.audit.Record(ctx, user.ID, constant.ActionUserRefreshedToken, input.IPAddress)
	s.metrics.RecordTokenRefresh()

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ForgotPassword issues a reset token and mails the reset link.
func (s *UserService) ForgotPassword(ctx context.Context, input dto.ForgotPasswordInput) error {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	token, err := s.tokens.GenerateActionToken(user.ID, user.Email, PurposeResetPassword,
		time.Duration(s.cfg.ResetExpiryMin)*time.Minute)
	if err != nil {
		return err
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
	defer cancel()

	if err := s.mailer.SendResetPasswordEmail(mailCtx, user.Email, token); err != nil {
		slog.Warn("failed to send reset password email",
			slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}

	s.audit.Record(ctx, user.ID, constant.ActionPasswordResetRequested, input.IPAddress)

	return nil
}

// VerifyResetToken confirms a reset token is still usable. No mutation.
func (s *UserService) VerifyResetToken(ctx context.Context, token string) error {
	claims, err := s.tokens.VerifyActionToken(token, PurposeResetPassword)
	if err != nil {
		return autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	return nil
}

// ResetPassword rehashes and overwrites the password of the token's subject.
func (s *UserService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	claims, err := s.tokens.VerifyActionToken(input.Token, PurposeResetPassword)
	if err != nil {
		return autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	hashedPassword, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	s.audit.Record(ctx, user.ID, constant.ActionPasswordReset, input.IPAddress)
	s.metrics.RecordPasswordReset()

	return nil
}

type noopRecorder struct{}

func (noopRecorder) Record(ctx context.Context, userID, action, ip string) {}
