package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

const pgUniqueViolation = "23505"

// DB is the slice of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*PostgresRepository)(nil)

// Repository is the favorites storage collaborator. (user_id, city, country)
// is unique; Insert surfaces a violation as types.ErrDuplicateKey so the
// toggle logic can treat duplication as a first-class outcome.
type Repository interface {
	Exists(ctx context.Context, userID uuid.UUID, city, country string) (bool, error)
	Insert(ctx context.Context, userID uuid.UUID, city, country string) error
	Delete(ctx context.Context, userID uuid.UUID, city, country string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]types.FavoriteCity, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresRepository(pgpool DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) Exists(ctx context.Context, userID uuid.UUID, city, country string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM fav_city_entries
            WHERE user_id = $1 AND city = $2 AND country = $3
        )
    `
	var exists bool
	if err := r.pgpool.QueryRow(ctx, query, userID, city, country).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, userID uuid.UUID, city, country string) error {
	query := `
        INSERT INTO fav_city_entries (user_id, city, country)
        VALUES ($1, $2, $3)
    `
	if _, err := r.pgpool.Exec(ctx, query, userID, city, country); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return types.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID uuid.UUID, city, country string) error {
	query := `
        DELETE FROM fav_city_entries
        WHERE user_id = $1 AND city = $2 AND country = $3
    `
	if _, err := r.pgpool.Exec(ctx, query, userID, city, country); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.FavoriteCity, error) {
	query := `
        SELECT id, user_id, city, country, created_at
        FROM fav_city_entries
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []types.FavoriteCity
	for rows.Next() {
		var fav types.FavoriteCity
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.City, &fav.Country, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite rows: %w", err)
	}
	return favorites, nil
}
