package captcha

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H1W0XXX/chiralcarbon/errors"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	file, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "db", "challenges.db"))
	require.NoError(t, err)
	mem, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)

	all := map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite file":   file,
		"sqlite memory": mem,
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func TestStore_PutTake(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := &Challenge{
				ID:        "abc",
				Regions:   []string{"A1", "A2", "B1", "B2"},
				Answers:   []string{"A2", "B1"},
				CreatedAt: base,
				ExpiresAt: base.Add(5 * time.Minute),
			}
			require.NoError(t, store.Put(ctx, in))

			out, err := store.Take(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, in.Regions, out.Regions)
			assert.Equal(t, in.Answers, out.Answers)
			assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
			assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))

			_, err = store.Take(ctx, "abc")
			assert.True(t, errors.IsNotFoundError(err))
		})
	}
}

func TestStore_TakeUnknown(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Take(context.Background(), "nope")
			require.Error(t, err)
			assert.True(t, errors.IsNotFoundError(err))
		})
	}
}

func TestStore_Purge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, ttl := range []time.Duration{-2 * time.Minute, -time.Second, time.Minute} {
				require.NoError(t, store.Put(ctx, &Challenge{
					ID:        string(rune('a' + i)),
					ExpiresAt: now.Add(ttl),
				}))
			}

			n, err := store.Purge(ctx, now)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			_, err = store.Take(ctx, "c")
			assert.NoError(t, err)
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "challenges.db")
	ctx := context.Background()

	s1, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Put(ctx, &Challenge{ID: "keep", Answers: []string{"A1"}}))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()
	c, err := s2.Take(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, c.Answers)
}
