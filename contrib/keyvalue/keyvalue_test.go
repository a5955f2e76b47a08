package keyvalue

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDemo(t *testing.T) (*Demo, *miniredis.Miniredis, *bytes.Buffer) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var out bytes.Buffer
	demo := NewDemo(client, report.New(&out),
		WithLoadDelay(0),
		WithClock(func() time.Time { return fixedNow }),
	)
	return demo, mr, &out
}

func TestBasicOperations(t *testing.T) {
	demo, mr, out := newTestDemo(t)

	require.NoError(t, demo.BasicOperations(context.Background()))

	name, err := mr.Get("user:1:name")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", name)
	assert.Contains(t, out.String(), "Visits: 2")
	assert.Contains(t, out.String(), "Time to live: 60 seconds")
}

func TestGetUserDataCachesValue(t *testing.T) {
	demo, mr, _ := newTestDemo(t)
	ctx := context.Background()

	calls := 0
	loader := demo.loader
	demo.loader = func(ctx context.Context, id int) (UserData, error) {
		calls++
		return loader(ctx, id)
	}

	first, hit, err := demo.GetUserData(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "John Doe", first.Name)

	second, hit, err := demo.GetUserData(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	assert.Equal(t, cacheTTL, mr.TTL("user:1:data"))
}

func TestCachingReportsHitAndMiss(t *testing.T) {
	demo, _, out := newTestDemo(t)

	require.NoError(t, demo.Caching(context.Background()))
	assert.Contains(t, out.String(), "Loading data from the database...")
	assert.Contains(t, out.String(), "Data served from cache")
}

func TestSlowLoaderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := slowLoader(time.Hour)(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSessions(t *testing.T) {
	demo, mr, _ := newTestDemo(t)
	ctx := context.Background()

	id, err := demo.CreateSession(ctx, 7)
	require.NoError(t, err)
	assert.Regexp(t, `^sess_[0-9a-f-]{36}$`, id)
	assert.Equal(t, sessionTTL, mr.TTL(sessionKey(id)))

	mr.FastForward(10 * time.Minute)

	session, err := demo.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "7", session["user_id"])
	assert.Equal(t, fixedNow.Format(time.RFC3339), session["login_time"])
	assert.Equal(t, sessionTTL, mr.TTL(sessionKey(id)), "reading refreshes the expiry")
}

func TestGetSessionMissing(t *testing.T) {
	demo, _, _ := newTestDemo(t)

	session, err := demo.GetSession(context.Background(), "sess_missing")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCheckRateLimit(t *testing.T) {
	demo, mr, _ := newTestDemo(t)
	ctx := context.Background()

	for i := range 5 {
		allowed, err := demo.CheckRateLimit(ctx, 1, 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}
	allowed, err := demo.CheckRateLimit(ctx, 1, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(time.Minute)

	allowed, err = demo.CheckRateLimit(ctx, 1, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "a new window starts after expiry")
}

func TestRateLimitingOutput(t *testing.T) {
	demo, _, out := newTestDemo(t)

	require.NoError(t, demo.RateLimiting(context.Background()))
	assert.Contains(t, out.String(), "Request 5: allowed")
	assert.Contains(t, out.String(), "Request 6: rejected")
	assert.Contains(t, out.String(), "Request 7: rejected")
}

func TestPublishEvent(t *testing.T) {
	demo, mr, _ := newTestDemo(t)
	ctx := context.Background()

	sub := mr.NewSubscriber()
	defer sub.Close()
	sub.Subscribe("notifications")

	n, err := demo.PublishEvent(ctx, "notifications", Event{Type: "user_registered", UserID: 1, Timestamp: "now"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	msg := <-sub.Messages()
	assert.JSONEq(t, `{"type":"user_registered","user_id":1,"timestamp":"now"}`, msg.Message)
}

func TestSortedSet(t *testing.T) {
	demo, _, out := newTestDemo(t)

	require.NoError(t, demo.SortedSet(context.Background()))
	assert.Contains(t, out.String(), "Top 3 players:\nplayer4: 300\nplayer2: 200\nplayer3: 150\n")
	assert.Contains(t, out.String(), "Rank of player1: 4")
}

func TestTourRun(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("stale", "value"))

	var out bytes.Buffer
	tour := New(config.RedisConfig{URL: "redis://" + mr.Addr() + "/0"}, report.New(&out), zerolog.Nop())

	require.NoError(t, tour.Ping(context.Background()))
	require.NoError(t, tour.Run(context.Background()))

	assert.False(t, mr.Exists("stale"), "run starts from an empty database")
	assert.Contains(t, out.String(), "=== Sorted sets ===")
}

func TestTourPingUnreachable(t *testing.T) {
	tour := New(config.RedisConfig{URL: "redis://127.0.0.1:1/0"}, report.New(&bytes.Buffer{}), zerolog.Nop())

	err := tour.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
