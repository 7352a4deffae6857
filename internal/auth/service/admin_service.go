package service

import (
	"context"
	"fmt"

	"github.com/S1mon009/auth-service/internal/auth/domain"
	"github.com/S1mon009/auth-service/internal/auth/dto"
	autherror "github.com/S1mon009/auth-service/internal/errors"
	"github.com/S1mon009/auth-service/pkg/constant"
)

// UsersService covers the administrative and self-service user operations:
// admin user creation, listing, role changes, profile access and the audit
// trail listing. Ownership and role gating happen at the handler.
type UsersService struct {
	repo      domain.UserRepository
	auditRepo domain.AuditRepository
	auth      *UserService
	audit     domain.AuditRecorder
}

func NewUsersService(
	repo domain.UserRepository,
	auditRepo domain.AuditRepository,
	auth *UserService,
	audit domain.AuditRecorder,
) *UsersService {
	if audit == nil {
		audit = noopRecorder{}
	}

	return &UsersService{
		repo:      repo,
		auditRepo: auditRepo,
		auth:      auth,
		audit:     audit,
	}
}

// AddUser registers a user on behalf of an admin, optionally with a non
// default role. The registration path is the same as self-registration, so
// the account still starts unverified and receives a verification email.
func (s *UsersService) AddUser(ctx context.Context, input dto.AddUserInput, adminID, ip string) (*domain.User, error) {
	user, err := s.auth.Register(ctx, dto.RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		IPAddress: ip,
	})
	if err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if role.Valid() && role != user.Role {
		if err := s.repo.UpdateRole(ctx, user.ID, role); err != nil {
			return nil, err
		}
		user.Role = role
	}

	s.audit.Record(ctx, adminID, constant.ActionUserCreatedByAdmin, ip)

	return user, nil
}

func (s *UsersService) ListUsers(ctx context.Context, adminID string) ([]dto.UserOutput, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, adminID, constant.ActionAllUsersViewed, "")

	out := make([]dto.UserOutput, 0, len(users))
	for _, u := range users {
		out = append(out, toUserOutput(&u))
	}

	return out, nil
}

// GetUser returns the identity record. actorID is who to attribute the audit
// event to; byAdmin marks views of someone else's record.
func (s *UsersService) GetUser(ctx context.Context, userID, actorID string, byAdmin bool) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	s.audit.Record(ctx, actorID, viewedAction(userID, byAdmin), "")

	out := toUserOutput(user)

	return &out, nil
}

func (s *UsersService) GetProfile(ctx context.Context, userID, actorID string, byAdmin bool) (*dto.ProfileOutput, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, autherror.ErrProfileNotFound
	}

	s.audit.Record(ctx, actorID, viewedAction(userID, byAdmin), "")

	return toProfileOutput(profile), nil
}

// UpdateProfile applies the non-nil fields of input to the user's profile.
func (s *UsersService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput, actorID string) (*dto.ProfileOutput, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, autherror.ErrProfileNotFound
	}

	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, fmt.Sprintf("%s %s", constant.ActionUserProfileUpdated, userID), "")

	return toProfileOutput(profile), nil
}

func (s *UsersService) UpdateRole(ctx context.Context, userID string, role domain.Role, adminID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	user.Role = role

	s.audit.Record(ctx, adminID, fmt.Sprintf("%s %s TO %s", constant.ActionUserRoleUpdated, userID, role), "")

	out := toUserOutput(user)

	return &out, nil
}

// ListAuditLogs returns the audit trail, newest first. Admin only.
func (s *UsersService) ListAuditLogs(ctx context.Context) ([]dto.AuditLogOutput, error) {
	entries, err := s.auditRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AuditLogOutput, 0, len(entries))
	for _, e := range entries {
		entry := dto.AuditLogOutput{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			CreatedAt: e.CreatedAt,
		}
		if e.IP != nil {
			entry.IP = *e.IP
		}
		out = append(out, entry)
	}

	return out, nil
}

func viewedAction(userID string, byAdmin bool) string {
	if byAdmin {
		return fmt.Sprintf("%s %s (by admin)", constant.ActionUserProfileViewed, userID)
	}
	return fmt.Sprintf("%s %s", constant.ActionUserProfileViewed, userID)
}

func toUserOutput(u *domain.User) dto.UserOutput {
	return dto.UserOutput{
		ID:         u.ID,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toProfileOutput(p *domain.Profile) *dto.ProfileOutput {
	return &dto.ProfileOutput{
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
	}
}
