package captcha

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func newTestService(t *testing.T, src Source, opts Options) (*Service, *MemoryStore, *fixedClock) {
	t.Helper()
	store := NewMemoryStore()
	clock := &fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(src, store, opts)
	svc.now = clock.now
	return svc, store, clock
}

func TestStart(t *testing.T) {
	src, calls := sequence(t, propane, threeCenters)
	svc, store, clock := newTestService(t, src, DefaultOptions())

	rsp, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)

	require.True(t, strings.HasPrefix(rsp.Image, "data:image/png;base64,"))
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(rsp.Image, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
	assert.Len(t, rsp.Regions, 4)

	c, ok := store.challenges[rsp.UUID]
	require.True(t, ok)
	assert.Equal(t, rsp.Regions, c.Regions)
	assert.NotEmpty(t, c.Answers)
	assert.True(t, c.ExpiresAt.Equal(clock.t.Add(5*time.Minute)))
	for _, a := range c.Answers {
		assert.Contains(t, c.Regions, a)
	}
}

func TestStart_NoCandidate(t *testing.T) {
	src, calls := sequence(t, propane)
	svc, _, _ := newTestService(t, src, Options{MinChiral: 3, Attempts: 4, MaxSize: 300, TTL: time.Minute})

	_, err := svc.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoCandidate))
	assert.Equal(t, 4, *calls)
}

func TestStart_SourceErrorsAreRetried(t *testing.T) {
	good, err := mdlmol.ParseRecord(threeCenters)
	require.NoError(t, err)
	calls := 0
	src := SourceFunc(func(ctx context.Context) (*mdlmol.Record, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("network down")
		}
		return good, nil
	})
	svc, _, _ := newTestService(t, src, DefaultOptions())

	_, err = svc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestStart_Cancelled(t *testing.T) {
	src := SourceFunc(func(ctx context.Context) (*mdlmol.Record, error) {
		return nil, ctx.Err()
	})
	svc, _, _ := newTestService(t, src, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name       string
		answers    []string
		selections []string
		want       bool
	}{
		{"exact", []string{"A1", "B2"}, []string{"A1", "B2"}, true},
		{"any order", []string{"A1", "B2"}, []string{"B2", "A1"}, true},
		{"repeats ignored", []string{"A1", "B2"}, []string{"A1", "B2", "A1"}, true},
		{"missing one", []string{"A1", "B2"}, []string{"A1"}, false},
		{"repeat is not a second answer", []string{"A1", "B2"}, []string{"A1", "A1"}, false},
		{"extra cell", []string{"A1"}, []string{"A1", "A2"}, false},
		{"nothing selected", []string{"A1"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, clock := newTestService(t, nil, DefaultOptions())
			require.NoError(t, store.Put(context.Background(), &Challenge{
				ID:        "c1",
				Answers:   tt.answers,
				ExpiresAt: clock.t.Add(time.Minute),
			}))

			ok, err := svc.Verify(context.Background(), "c1", tt.selections)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestVerify_OneShot(t *testing.T) {
	svc, store, clock := newTestService(t, nil, DefaultOptions())
	require.NoError(t, store.Put(context.Background(), &Challenge{
		ID: "c1", Answers: []string{"A1"}, ExpiresAt: clock.t.Add(time.Minute),
	}))

	ok, err := svc.Verify(context.Background(), "c1", []string{"A1"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Verify(context.Background(), "c1", []string{"A1"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestVerify_Expired(t *testing.T) {
	svc, store, clock := newTestService(t, nil, DefaultOptions())
	require.NoError(t, store.Put(context.Background(), &Challenge{
		ID: "c1", Answers: []string{"A1"}, ExpiresAt: clock.t.Add(time.Minute),
	}))
	clock.t = clock.t.Add(time.Minute)

	_, err := svc.Verify(context.Background(), "c1", []string{"A1"})
	assert.True(t, errors.Is(err, errors.ErrExpired))
}

func TestVerify_MissingID(t *testing.T) {
	svc, _, _ := newTestService(t, nil, DefaultOptions())
	_, err := svc.Verify(context.Background(), "", []string{"A1"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestStartThenVerify(t *testing.T) {
	src, _ := sequence(t, threeCenters)
	svc, store, _ := newTestService(t, src, DefaultOptions())

	rsp, err := svc.Start(context.Background())
	require.NoError(t, err)
	answers := store.challenges[rsp.UUID].Answers

	ok, err := svc.Verify(context.Background(), rsp.UUID, answers)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPurge(t *testing.T) {
	svc, store, clock := newTestService(t, nil, DefaultOptions())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &Challenge{ID: "old", ExpiresAt: clock.t.Add(-time.Second)}))
	require.NoError(t, store.Put(ctx, &Challenge{ID: "new", ExpiresAt: clock.t.Add(time.Second)}))

	n, err := svc.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, store.challenges, "new")
	assert.NotContains(t, store.challenges, "old")
}
