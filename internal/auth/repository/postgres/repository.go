package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/S1mon009/auth-service/internal/auth/domain"
)

// PgxIface is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, role, is_verified, refresh_token, created_at, updated_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role,
		&user.IsVerified, &user.RefreshToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Create inserts the user and its empty profile in a single transaction.
func (r *PostgresRepository) Create(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, role, is_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, user.ID, user.Email, user.PasswordHash, user.Role, user.IsVerified, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO profiles (user_id, first_name, last_name, avatar_url, bio, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, profile.UserID, profile.FirstName, profile.LastName, profile.AvatarURL, profile.Bio,
		profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role,
			&user.IsVerified, &user.RefreshToken, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *PostgresRepository) SetVerified(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1
	`, userID)

	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, userID, passwordHash)

	return err
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET role = $2, updated_at = now() WHERE id = $1
	`, userID, role)

	return err
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1
	`, userID, token)

	return err
}

// RotateRefreshToken swaps the stored refresh token only when it still holds
// oldToken. The conditional update serializes concurrent rotations: the
// loser matches zero rows and reports false.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE users SET refresh_token = $3, updated_at = now()
		WHERE id = $1 AND refresh_token = $2
	`, userID, oldToken, newToken)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return ct.RowsAffected() == 1, nil
}

func (r *PostgresRepository) GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, avatar_url, bio, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
		LIMIT 1;
	`

	var profile domain.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(&profile.UserID, &profile.FirstName,
		&profile.LastName, &profile.AvatarURL, &profile.Bio, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	_, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET first_name = $2, last_name = $3, avatar_url = $4, bio = $5, updated_at = now()
		WHERE user_id = $1
	`, profile.UserID, profile.FirstName, profile.LastName, profile.AvatarURL, profile.Bio)

	return err
}
