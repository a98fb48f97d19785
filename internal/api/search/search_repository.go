package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// DB is the slice of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository is the append-only search log plus the popularity query the
// profile page reads. Duplicate observations for the same city accumulate;
// there is no uniqueness here by design.
type Repository interface {
	Record(ctx context.Context, city, country string) error
	TopCities(ctx context.Context, n int) ([]types.CityCount, error)
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

func (r *PostgresRepository) Record(ctx context.Context, city, country string) error {
	query := `
        INSERT INTO city_search_records (city, country)
        VALUES ($1, $2)
    `
	if _, err := r.pgpool.Exec(ctx, query, city, country); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

func (r *PostgresRepository) TopCities(ctx context.Context, n int) ([]types.CityCount, error) {
	query := `
        SELECT city, country, COUNT(*) AS search_count
        FROM city_search_records
        GROUP BY city, country
        ORDER BY search_count DESC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top cities: %w", err)
	}
	defer rows.Close()

	var top []types.CityCount
	for rows.Next() {
		var cc types.CityCount
		if err := rows.Scan(&cc.City, &cc.Country, &cc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top-city row: %w", err)
		}
		top = append(top, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top-city rows: %w", err)
	}
	return top, nil
}
