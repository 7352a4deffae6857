package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S1mon009/auth-service/internal/auth/domain"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresRepository(mock), mock
}

func userRow(mock pgxmock.PgxPoolIface, user *domain.User) *pgxmock.Rows {
	return mock.NewRows([]string{
		"id", "email", "password_hash", "role", "is_verified", "refresh_token", "created_at", "updated_at",
	}).AddRow(user.ID, user.Email, user.PasswordHash, user.Role, user.IsVerified,
		user.RefreshToken, user.CreatedAt, user.UpdatedAt)
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		want := &domain.User{
			ID:           "user-123",
			Email:        "test@example.com",
			PasswordHash: "hash",
			Role:         domain.RoleUser,
			IsVerified:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, role, is_verified, refresh_token, created_at, updated_at FROM users WHERE email = $1`)).
			WithArgs("test@example.com").
			WillReturnRows(userRow(mock, want))

		user, err := repo.GetByEmail(context.Background(), "test@example.com")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, want.ID, user.ID)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Nil(t, user.RefreshToken)
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.GetByEmail(context.Background(), "nobody@example.com")

		require.NoError(t, err)
		assert.Nil(t, user)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.GetByID(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create(t *testing.T) {
	now := time.Now()
	user := &domain.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.Profile{UserID: user.ID, CreatedAt: now, UpdatedAt: now}

	t.Run("inserts user and profile in one tx", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.Role, user.IsVerified, now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO profiles").
			WithArgs(profile.UserID, "", "", "", "", now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Create(context.Background(), user, profile))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the profile insert fails", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.Role, user.IsVerified, now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO profiles").
			WithArgs(profile.UserID, "", "", "", "", now, now).
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err := repo.Create(context.Background(), user, profile)

		assert.ErrorContains(t, err, "failed to insert profile")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	token := "refresh-token"

	rows := mock.NewRows([]string{
		"id", "email", "password_hash", "role", "is_verified", "refresh_token", "created_at", "updated_at",
	}).
		AddRow("u1", "a@example.com", "h1", domain.RoleUser, true, &token, now, now).
		AddRow("u2", "b@example.com", "h2", domain.RoleAdmin, false, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at").WillReturnRows(rows)

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	require.NotNil(t, users[0].RefreshToken)
	assert.Equal(t, token, *users[0].RefreshToken)
	assert.Nil(t, users[1].RefreshToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_RotateRefreshToken(t *testing.T) {
	t.Run("swaps when the slot still matches", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("UPDATE users SET refresh_token").
			WithArgs("user-123", "old-token", "new-token").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		rotated, err := repo.RotateRefreshToken(context.Background(), "user-123", "old-token", "new-token")

		require.NoError(t, err)
		assert.True(t, rotated)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports false when the slot was superseded", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("UPDATE users SET refresh_token").
			WithArgs("user-123", "stale-token", "new-token").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		rotated, err := repo.RotateRefreshToken(context.Background(), "user-123", "stale-token", "new-token")

		require.NoError(t, err)
		assert.False(t, rotated)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_SetVerified(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetVerified(context.Background(), "user-123"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdatePassword(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("user-123", "new-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), "user-123", "new-hash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateRole(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET role").
		WithArgs("user-123", domain.RoleAdmin).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateRole(context.Background(), "user-123", domain.RoleAdmin))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Profile(t *testing.T) {
	now := time.Now()

	t.Run("get found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := mock.NewRows([]string{
			"user_id", "first_name", "last_name", "avatar_url", "bio", "created_at", "updated_at",
		}).AddRow("user-123", "Ada", "Lovelace", "", "bio", now, now)

		mock.ExpectQuery("SELECT (.+) FROM profiles").
			WithArgs("user-123").
			WillReturnRows(rows)

		profile, err := repo.GetProfileByUserID(context.Background(), "user-123")

		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "Ada", profile.FirstName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM profiles").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		profile, err := repo.GetProfileByUserID(context.Background(), "ghost")

		require.NoError(t, err)
		assert.Nil(t, profile)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("UPDATE profiles").
			WithArgs("user-123", "Ada", "Lovelace", "", "new bio").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateProfile(context.Background(), &domain.Profile{
			UserID:    "user-123",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Bio:       "new bio",
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
