package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory/directorytest"
)

func TestContract(t *testing.T) {
	directorytest.Run(t, func(t *testing.T) directory.Directory { return New() })
}

func TestReturnedSkillsAreCopies(t *testing.T) {
	d := New(directorytest.Fixtures()...)

	got, err := d.FindUsers(context.Background(), directory.Filter{Skills: []string{"python"}})
	require.NoError(t, err)
	got[0].Skills[0] = "mutated"

	u, err := d.GetUser(context.Background(), "usr-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, u.Skills)
}

func TestConcurrentAccess(t *testing.T) {
	d := New(directory.DemoUsers()...)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = d.FindUsers(context.Background(), directory.Filter{Skills: []string{"react"}})
		}()
		go func() {
			defer wg.Done()
			_, _ = d.UpsertUser(context.Background(), directory.User{Name: "Temp User"})
		}()
	}
	wg.Wait()
	assert.Equal(t, len(directory.DemoUsers())+8, d.Len())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().FindUsers(ctx, directory.Filter{Year: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
