// Package directory is the read-mostly user directory the concierge searches
// for teammates. Backends live in the memory, postgres and sqlite
// subpackages; they all honour the matching rules of Filter.
package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/lewisedginton/teambuilder_concierge/pkg/prefixed_uuid"
)

// UserIDPrefix tags every user identifier.
const UserIDPrefix = "usr"

// ErrNotFound is returned by GetUser for unknown identifiers.
var ErrNotFound = errors.New("user not found")

type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityInTeam    Availability = "in-team"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityInTeam:
		return true
	}
	return false
}

// Candidate is the public projection of a User returned by searches.
type Candidate struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Skills       []string     `json:"skills"`
	Availability Availability `json:"availability"`
	College      string       `json:"college"`
	Year         int          `json:"year,omitempty"`
}

// User is a stored directory record.
type User struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name" validate:"required,min=2,max=50"`
	Email        string       `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	Bio          string       `json:"bio,omitempty" yaml:"bio" validate:"max=500"`
	College      string       `json:"college" yaml:"college" validate:"max=100"`
	Year         int          `json:"year,omitempty" yaml:"year" validate:"omitempty,min=1,max=5"`
	Skills       []string     `json:"skills" yaml:"skills" validate:"max=20,dive,required,max=64"`
	Availability Availability `json:"availability" yaml:"availability" validate:"omitempty,oneof=available busy in-team"`
}

// Candidate drops the private fields of u.
func (u User) Candidate() Candidate {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return Candidate{
		ID:           u.ID,
		Name:         u.Name,
		Skills:       append([]string(nil), skills...),
		Availability: u.Availability,
		College:      u.College,
		Year:         u.Year,
	}
}

// Normalize fills the defaults a backend applies before storing u.
func (u User) Normalize() User {
	if u.ID == "" {
		u.ID = UserIDFor(u.Email)
	}
	if u.Availability == "" {
		u.Availability = AvailabilityAvailable
	}
	u.Name = strings.TrimSpace(u.Name)
	u.College = strings.TrimSpace(u.College)
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return u
}

// UserIDFor derives a stable identifier from an email address, so reseeding
// the same roster updates rows in place. An empty email yields a random ID.
func UserIDFor(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return prefixed_uuid.New(UserIDPrefix).String()
	}
	return prefixed_uuid.PrefixedUUID{
		Prefix: UserIDPrefix,
		UUID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)),
	}.String()
}

// Directory is implemented by every backend. Implementations are safe for
// concurrent use.
type Directory interface {
	// FindUsers returns candidates matching f, ordered by name then id.
	FindUsers(ctx context.Context, f Filter) ([]Candidate, error)
	GetUser(ctx context.Context, id string) (User, error)
	// UpsertUser stores u after Normalize and returns the stored record.
	UpsertUser(ctx context.Context, u User) (User, error)
	Ping(ctx context.Context) error
	Close() error
}
