package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S1mon009/auth-service/internal/auth/domain"
	"github.com/S1mon009/auth-service/internal/auth/dto"
	"github.com/S1mon009/auth-service/internal/auth/service"
	autherror "github.com/S1mon009/auth-service/internal/errors"
	"github.com/S1mon009/auth-service/internal/mocks"
)

type usersFixture struct {
	*engineFixture
	auditRepo *mocks.MockAuditRepository
	users     *service.UsersService
}

func newUsersFixture(t *testing.T, ctrl *gomock.Controller) *usersFixture {
	t.Helper()

	f := &usersFixture{
		engineFixture: newEngineFixture(t, ctrl),
		auditRepo:     mocks.NewMockAuditRepository(ctrl),
	}
	f.users = service.NewUsersService(f.repo, f.auditRepo, f.service, f.audit)

	return f
}

func TestUsersService_AddUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newUsersFixture(t, ctrl)

	t.Run("creates an admin account", func(t *testing.T) {
		f.repo.EXPECT().GetByEmail(gomock.Any(), "new@example.com").Return(nil, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().UpdateRole(gomock.Any(), gomock.Any(), domain.RoleAdmin).Return(nil)
		f.mailer.EXPECT().SendVerificationEmail(gomock.Any(), "new@example.com", gomock.Any()).Return(nil)
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any(), "USER_CREATED", "9.9.9.9")
		f.audit.EXPECT().Record(gomock.Any(), "admin-1", "USER_CREATED_BY_ADMIN", "9.9.9.9")

		user, err := f.users.AddUser(context.Background(), dto.AddUserInput{
			Email:    "new@example.com",
			Password: "password123",
			Role:     "admin",
		}, "admin-1", "9.9.9.9")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.False(t, user.IsVerified)
	})

	t.Run("default role skips the role update", func(t *testing.T) {
		f.repo.EXPECT().GetByEmail(gomock.Any(), "plain@example.com").Return(nil, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.mailer.EXPECT().SendVerificationEmail(gomock.Any(), "plain@example.com", gomock.Any()).Return(nil)
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any(), "USER_CREATED", gomock.Any())
		f.audit.EXPECT().Record(gomock.Any(), "admin-1", "USER_CREATED_BY_ADMIN", gomock.Any())

		user, err := f.users.AddUser(context.Background(), dto.AddUserInput{
			Email:    "plain@example.com",
			Password: "password123",
		}, "admin-1", "")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f.repo.EXPECT().GetByEmail(gomock.Any(), "taken@example.com").
			Return(&domain.User{ID: "existing"}, nil)

		_, err := f.users.AddUser(context.Background(), dto.AddUserInput{
			Email:    "taken@example.com",
			Password: "password123",
		}, "admin-1", "")

		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})
}

func TestUsersService_ListUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newUsersFixture(t, ctrl)

	f.repo.EXPECT().List(gomock.Any()).Return([]domain.User{
		{ID: "u1", Email: "a@example.com", Role: domain.RoleUser, IsVerified: true},
		{ID: "u2", Email: "b@example.com", Role: domain.RoleAdmin, IsVerified: false},
	}, nil)
	f.audit.EXPECT().Record(gomock.Any(), "admin-1", "ALL_USERS_VIEWED", "")

	out, err := f.users.ListUsers(context.Background(), "admin-1")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "u1", out[0].ID)
	assert.Equal(t, "admin", out[1].Role)
}

func TestUsersService_GetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newUsersFixture(t, ctrl)

	t.Run("self view", func(t *testing.T) {
		f.repo.EXPECT().GetByID(gomock.Any(), "u1").
			Return(&domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleUser}, nil)
		f.audit.EXPECT().Record(gomock.Any(), "u1", "USER_PROFILE_VIEWED u1", "")

		out, err := f.users.GetUser(context.Background(), "u1", "u1", false)
		require.NoError(t, err)
		assert.Equal(t, "u1", out.ID)
	})

	t.Run("admin view is attributed to the admin", func(t *testing.T) {
		f.repo.EXPECT().GetByID(gomock.Any(), "u1").
			Return(&domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleUser}, nil)
		f.audit.EXPECT().Record(gomock.Any(), "admin-1", "USER_PROFILE_VIEWED u1 (by admin)", "")

		_, err := f.users.GetUser(context.Background(), "u1", "admin-1", true)
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f.repo.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, nil)

		_, err := f.users.GetUser(context.Background(), "ghost", "admin-1", true)
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})
}

func TestUsersService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newUsersFixture(t, ctrl)

	t.Run("applies only the provided fields", func(t *testing.T) {
		existing := &domain.Profile{
			UserID:    "u1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Bio:       "original bio",
		}
		f.repo.EXPECT().GetProfileByUserID(gomock.Any(), "u1").Return(existing, nil)
		f.repo.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Profile) error {
				assert.Equal(t, "Grace", p.FirstName)
				assert.Equal(t, "Lovelace", p.LastName)
				assert.Equal(t, "original bio", p.Bio)
				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), "u1", "USER_PROFILE_UPDATED u1", "")

		firstName := "Grace"
		out, err := f.users.UpdateProfile(context.Background(), "u1", dto.UpdateProfileInput{
			FirstName: &firstName,
		}, "u1")

		require.NoError(t, err)
		assert.Equal(t, "Grace", out.FirstName)
	})

	t.Run("missing profile", func(t *testing.T) {
		f.repo.EXPECT().GetProfileByUserID(gomock.Any(), "ghost").Return(nil, nil)

		_, err := f.users.UpdateProfile(context.Background(), "ghost", dto.UpdateProfileInput{}, "ghost")
		assert.ErrorIs(t, err, autherror.ErrProfileNotFound)
	})
}

func TestUsersService_UpdateRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newUsersFixture(t, ctrl)

	t.Run("promotes and audits the transition", func(t *testing.T) {
		f.repo.EXPECT().GetByID(gomock.Any(), "u1").
			Return(&domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleUser}, nil)
		f.repo.EXPECT().UpdateRole(gomock.Any(), "u1", domain.RoleAdmin).Return(nil)
		f.audit.EXPECT().Record(gomock.Any(), "admin-1", "USER_ROLE_UPDATED u1 TO admin", "")

		out, err := f.users.UpdateRole(context.Background(), "u1", domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, "admin", out.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		f.repo.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, nil)

		_, err := f.users.UpdateRole(context.Background(), "ghost", domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})
}

func TestUsersService_ListAuditLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newUsersFixture(t, ctrl)

	ip := "1.2.3.4"
	now := time.Now()
	f.auditRepo.EXPECT().List(gomock.Any()).Return([]domain.AuditLog{
		{ID: "a2", UserID: "u1", Action: "USER_LOGGED_IN", IP: &ip, CreatedAt: now},
		{ID: "a1", UserID: "u1", Action: "USER_CREATED", CreatedAt: now.Add(-time.Minute)},
	}, nil)

	out, err := f.users.ListAuditLogs(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "1.2.3.4", out[0].IP)
	assert.Empty(t, out[1].IP)
}
