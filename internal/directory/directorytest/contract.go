// Package directorytest holds the behaviour every directory backend must
// share, run from each backend's tests.
package directorytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
)

// Fixtures is the roster loaded before every contract case.
func Fixtures() []directory.User {
	return []directory.User{
		{ID: "usr-1", Name: "Alice", Skills: []string{"React", "Node.js"}, Availability: directory.AvailabilityAvailable, College: "BIT Mesra", Year: 3},
		{ID: "usr-2", Name: "Bob", Skills: []string{"Python"}, Availability: directory.AvailabilityAvailable, College: "IIT Delhi", Year: 2},
		{ID: "usr-3", Name: "Carol", Skills: []string{"ReactJS"}, Availability: directory.AvailabilityBusy, College: "BIT Mesra", Year: 3},
		{ID: "usr-4", Name: "Dan", Skills: []string{"node.js backend", "Go"}, Availability: directory.AvailabilityAvailable, College: "NIT Patna", Year: 4},
		{ID: "usr-5", Name: "Alice", Skills: []string{"react native"}, Availability: directory.AvailabilityInTeam, College: "bit mesra", Year: 1},
		{ID: "usr-6", Name: "Eve", Skills: []string{"100%_coverage"}, Availability: directory.AvailabilityAvailable, College: "IIT Delhi", Year: 5},
	}
}

// Factory returns an empty backend; the contract seeds it with Fixtures.
type Factory func(t *testing.T) directory.Directory

func ids(cs []directory.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

// Run executes the contract against newDir.
func Run(t *testing.T, newDir Factory) {
	setup := func(t *testing.T) directory.Directory {
		d := newDir(t)
		for _, u := range Fixtures() {
			_, err := d.UpsertUser(context.Background(), u)
			require.NoError(t, err)
		}
		return d
	}

	t.Run("find", func(t *testing.T) {
		d := setup(t)
		tests := []struct {
			name   string
			filter directory.Filter
			want   []string
		}{
			{
				name:   "any skill, case-insensitive substring",
				filter: directory.Filter{Skills: []string{"react", "NODE.JS"}, MatchMode: directory.MatchAny},
				want:   []string{"usr-1", "usr-5", "usr-3", "usr-4"},
			},
			{
				name:   "all skills",
				filter: directory.Filter{Skills: []string{"React", "Node.js"}, MatchMode: directory.MatchAll},
				want:   []string{"usr-1"},
			},
			{
				name:   "require available",
				filter: directory.Filter{Skills: []string{"react"}, RequireAvailable: true},
				want:   []string{"usr-1"},
			},
			{
				name:   "college substring",
				filter: directory.Filter{College: "mesra"},
				want:   []string{"usr-1", "usr-5", "usr-3"},
			},
			{
				name:   "year exact",
				filter: directory.Filter{Year: 3},
				want:   []string{"usr-1", "usr-3"},
			},
			{
				name:   "limit keeps order",
				filter: directory.Filter{College: "mesra", Limit: 2},
				want:   []string{"usr-1", "usr-5"},
			},
			{
				name:   "like metacharacters are literal",
				filter: directory.Filter{Skills: []string{"%_"}},
				want:   []string{"usr-6"},
			},
			{
				name:   "no match",
				filter: directory.Filter{Skills: []string{"COBOL"}},
				want:   []string{},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := d.FindUsers(context.Background(), tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids(got))
			})
		}
	})

	t.Run("non-ascii case folding", func(t *testing.T) {
		d := newDir(t)
		ctx := context.Background()
		_, err := d.UpsertUser(ctx, directory.User{
			ID: "usr-zoe", Name: "Zoë", Skills: []string{"ÉLAN Design"},
			Availability: directory.AvailabilityAvailable, College: "École Polytechnique",
		})
		require.NoError(t, err)

		for _, f := range []directory.Filter{
			{Skills: []string{"élan"}, MatchMode: directory.MatchAny},
			{Skills: []string{"Élan DESIGN"}, MatchMode: directory.MatchAll},
			{College: "école"},
		} {
			got, err := d.FindUsers(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, []string{"usr-zoe"}, ids(got), "%+v", f)
		}
	})

	t.Run("candidate projection", func(t *testing.T) {
		d := setup(t)
		got, err := d.FindUsers(context.Background(), directory.Filter{Skills: []string{"python"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, directory.Candidate{
			ID: "usr-2", Name: "Bob", Skills: []string{"Python"},
			Availability: directory.AvailabilityAvailable, College: "IIT Delhi", Year: 2,
		}, got[0])
	})

	t.Run("get and upsert", func(t *testing.T) {
		d := setup(t)
		ctx := context.Background()

		u, err := d.GetUser(ctx, "usr-2")
		require.NoError(t, err)
		assert.Equal(t, "Bob", u.Name)

		u.Skills = []string{"Python", "FastAPI"}
		u.Availability = directory.AvailabilityBusy
		_, err = d.UpsertUser(ctx, u)
		require.NoError(t, err)

		again, err := d.GetUser(ctx, "usr-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"Python", "FastAPI"}, again.Skills)
		assert.Equal(t, directory.AvailabilityBusy, again.Availability)

		_, err = d.GetUser(ctx, "usr-missing")
		assert.ErrorIs(t, err, directory.ErrNotFound)
	})

	t.Run("upsert assigns id and defaults", func(t *testing.T) {
		d := newDir(t)
		stored, err := d.UpsertUser(context.Background(), directory.User{Name: "Zed", Email: "zed@demo.com"})
		require.NoError(t, err)
		assert.Equal(t, directory.UserIDFor("zed@demo.com"), stored.ID)
		assert.Equal(t, directory.AvailabilityAvailable, stored.Availability)

		got, err := d.GetUser(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, "zed@demo.com", got.Email)
		assert.Empty(t, got.Skills)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newDir(t).Ping(context.Background()))
	})
}
