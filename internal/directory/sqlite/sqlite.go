// Package sqlite stores the directory in a single SQLite file through sqlx
// and the pure-Go modernc driver. Skills are kept as a JSON array.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	moderncsqlite "modernc.org/sqlite"

	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// lowerFunc replaces SQLite's lower(), which only folds ASCII.
const lowerFunc = "go_lower"

var dialect = directory.Dialect{
	Placeholder: func(int) string { return "?" },
	SkillLike: func(ph string) string {
		return "EXISTS (SELECT 1 FROM json_each(users.skills) WHERE " + lowerFunc + "(json_each.value) LIKE " + ph + ` ESCAPE '\')`
	},
	OrderBy: "name, id",
	Lower:   lowerFunc,
}

func init() {
	moderncsqlite.MustRegisterDeterministicScalarFunction(lowerFunc, 1, goLower)
}

func goLower(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// skillList maps []string to a JSON text column.
type skillList []string

func (s *skillList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case nil:
		*s = skillList{}
		return nil
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", src, s)
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode skills: %w", err)
	}
	*s = out
	return nil
}

func (s skillList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	return string(b), err
}

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Bio          string    `db:"bio"`
	College      string    `db:"college"`
	Year         int       `db:"year"`
	Skills       skillList `db:"skills"`
	Availability string    `db:"availability"`
}

func (r userRow) user() directory.User {
	return directory.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Bio:          r.Bio,
		College:      r.College,
		Year:         r.Year,
		Skills:       []string(r.Skills),
		Availability: directory.Availability(r.Availability),
	}
}

// Store is a directory.Directory over SQLite.
type Store struct {
	db  *sqlx.DB
	log logger.Logger
}

var _ directory.Directory = (*Store)(nil)

// Open connects to the database file at path, applying migrations when
// migrate is set.
func Open(path string, migrate bool, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}

	// SQLite serialises writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db, log: log.WithFields(logger.StringField("directory", "sqlite"))}
	if migrate {
		if err := s.Migrate(true); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) FindUsers(ctx context.Context, f directory.Filter) ([]directory.Candidate, error) {
	query, args := directory.BuildQuery(f, dialect)

	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	out := make([]directory.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.user().Candidate())
	}
	return out, nil
}

const getUser = `SELECT id, name, email, bio, college, year, skills, availability FROM users WHERE id = ?`

func (s *Store) GetUser(ctx context.Context, id string) (directory.User, error) {
	var r userRow
	err := s.db.GetContext(ctx, &r, getUser, id)
	if errors.Is(err, sql.ErrNoRows) {
		return directory.User{}, fmt.Errorf("get user %q: %w", id, directory.ErrNotFound)
	}
	if err != nil {
		return directory.User{}, fmt.Errorf("get user %q: %w", id, err)
	}
	return r.user(), nil
}

const upsertUser = `
INSERT INTO users (id, name, email, bio, college, year, skills, availability)
VALUES (:id, :name, :email, :bio, :college, :year, :skills, :availability)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    email = excluded.email,
    bio = excluded.bio,
    college = excluded.college,
    year = excluded.year,
    skills = excluded.skills,
    availability = excluded.availability,
    updated_at = CURRENT_TIMESTAMP`

func (s *Store) UpsertUser(ctx context.Context, u directory.User) (directory.User, error) {
	u = u.Normalize()
	row := userRow{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Bio:          u.Bio,
		College:      u.College,
		Year:         u.Year,
		Skills:       skillList(u.Skills),
		Availability: string(u.Availability),
	}
	if _, err := s.db.NamedExecContext(ctx, upsertUser, row); err != nil {
		s.log.Error("Failed to upsert user", logger.StringField("user_id", u.ID), logger.ErrorField(err))
		return directory.User{}, fmt.Errorf("upsert user %q: %w", u.ID, err)
	}
	return u, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
