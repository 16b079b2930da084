package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, first_name, last_name, email, mobile, created_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Mobile, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", id.String()).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}
