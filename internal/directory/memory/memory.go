// Package memory is an in-process directory used for demos and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
)

type Directory struct {
	mu    sync.RWMutex
	users map[string]directory.User
}

var _ directory.Directory = (*Directory)(nil)

// New returns a directory holding users, normalised.
func New(users ...directory.User) *Directory {
	d := &Directory{users: make(map[string]directory.User, len(users))}
	for _, u := range users {
		u = u.Normalize()
		d.users[u.ID] = cloneUser(u)
	}
	return d
}

func (d *Directory) FindUsers(ctx context.Context, f directory.Filter) ([]directory.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	all := make([]directory.Candidate, 0, len(d.users))
	for _, u := range d.users {
		all = append(all, u.Candidate())
	}
	d.mu.RUnlock()

	return directory.Apply(all, f), nil
}

func (d *Directory) GetUser(ctx context.Context, id string) (directory.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return directory.User{}, fmt.Errorf("get user %q: %w", id, directory.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (d *Directory) UpsertUser(ctx context.Context, u directory.User) (directory.User, error) {
	if err := ctx.Err(); err != nil {
		return directory.User{}, err
	}
	u = u.Normalize()

	d.mu.Lock()
	d.users[u.ID] = cloneUser(u)
	d.mu.Unlock()
	return u, nil
}

func (d *Directory) Ping(ctx context.Context) error { return ctx.Err() }

func (d *Directory) Close() error { return nil }

// Len is the number of stored users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

func cloneUser(u directory.User) directory.User {
	u.Skills = append([]string{}, u.Skills...)
	return u
}
