package comments

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
}

var _ Repository = (*PostgresRepository)(nil)

// Repository is the comments storage collaborator. An exact-duplicate
// (city, country, author, body) tuple violates uniqueness and comes back as
// types.ErrDuplicateKey.
type Repository interface {
	Append(ctx context.Context, city, country string, authorID uuid.UUID, body string) error
	ListForCity(ctx context.Context, city, country string) ([]types.Comment, error)
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

func (r *PostgresRepository) Append(ctx context.Context, city, country string, authorID uuid.UUID, body string) error {
	query := `
        INSERT INTO city_comments (city, country, author_id, body)
        VALUES ($1, $2, $3, $4)
    `
	if _, err := r.pgpool.Exec(ctx, query, city, country, authorID, body); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return types.ErrDuplicateKey
		}
		return fmt.Errorf("failed to append comment: %w", err)
	}
	return nil
}

// ListForCity returns the city's comments ordered by creation time ascending.
func (r *PostgresRepository) ListForCity(ctx context.Context, city, country string) ([]types.Comment, error) {
	query := `
        SELECT id, city, country, author_id, body, created_at
        FROM city_comments
        WHERE city = $1 AND country = $2
        ORDER BY created_at ASC
    `
	rows, err := r.pgpool.Query(ctx, query, city, country)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []types.Comment
	for rows.Next() {
		var c types.Comment
		if err := rows.Scan(&c.ID, &c.City, &c.Country, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}
