// Package postgres serves the directory from Postgres through a pgx pool.
// Static statements are sqlc-generated; FindUsers is built per filter.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory/postgres/sqlc"
	pkgconfig "github.com/lewisedginton/teambuilder_concierge/pkg/config"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

var dialect = directory.Dialect{
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	SkillLike: func(ph string) string {
		return "EXISTS (SELECT 1 FROM unnest(skills) AS s(skill) WHERE lower(s.skill) LIKE " + ph + ` ESCAPE '\')`
	},
	OrderBy: `name COLLATE "C", id`,
}

// Store is a directory.Directory over Postgres.
type Store struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
	log     logger.Logger
}

var _ directory.Directory = (*Store)(nil)

// Open creates the pool described by cfg, pings it and optionally migrates.
func Open(ctx context.Context, cfg pkgconfig.DatabaseConfig, migrate bool, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConnections)
	poolCfg.MinConns = int32(cfg.MinConnections)
	if cfg.MaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxIdleTime
	}
	if cfg.MaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := New(pool, log)
	if migrate {
		if err := s.Migrate(true); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return s, nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		pool:    pool,
		queries: sqlc.New(pool),
		log:     log.WithFields(logger.StringField("directory", "postgres")),
	}
}

// WithTx runs the static queries inside tx.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{
		pool:    s.pool,
		queries: s.queries.WithTx(tx),
		log:     s.log,
	}
}

func (s *Store) FindUsers(ctx context.Context, f directory.Filter) ([]directory.Candidate, error) {
	query, args := directory.BuildQuery(f, dialect)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	out := []directory.Candidate{}
	for rows.Next() {
		var (
			c            directory.Candidate
			availability string
			year         int32
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Skills, &availability, &c.College, &year); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Availability = directory.Availability(availability)
		c.Year = int(year)
		if c.Skills == nil {
			c.Skills = []string{}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (directory.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.User{}, fmt.Errorf("get user %q: %w", id, directory.ErrNotFound)
	}
	if err != nil {
		s.log.Error("Failed to get user", logger.StringField("user_id", id), logger.ErrorField(err))
		return directory.User{}, fmt.Errorf("get user %q: %w", id, err)
	}
	return convertSQLCToUser(row), nil
}

func (s *Store) UpsertUser(ctx context.Context, u directory.User) (directory.User, error) {
	u = u.Normalize()
	row, err := s.queries.UpsertUser(ctx, sqlc.UpsertUserParams{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Bio:          u.Bio,
		College:      u.College,
		Year:         int32(u.Year),
		Skills:       u.Skills,
		Availability: string(u.Availability),
	})
	if err != nil {
		s.log.Error("Failed to upsert user", logger.StringField("user_id", u.ID), logger.ErrorField(err))
		return directory.User{}, fmt.Errorf("upsert user %q: %w", u.ID, err)
	}
	return convertSQLCToUser(row), nil
}

// Count returns the number of stored users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.queries.CountUsers(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func convertSQLCToUser(row sqlc.User) directory.User {
	skills := row.Skills
	if skills == nil {
		skills = []string{}
	}
	return directory.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Bio:          row.Bio,
		College:      row.College,
		Year:         int(row.Year),
		Skills:       skills,
		Availability: directory.Availability(row.Availability),
	}
}
