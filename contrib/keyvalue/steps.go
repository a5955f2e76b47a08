package keyvalue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cacheTTL        = 5 * time.Minute
	sessionTTL      = 30 * time.Minute
	rateLimit       = 5
	rateLimitWindow = time.Minute
)

func (d *Demo) BasicOperations(ctx context.Context) error {
	d.report.Section("Basic operations")

	if err := d.rdb.Set(ctx, "user:1:name", "John Doe", 0).Err(); err != nil {
		return err
	}
	if err := d.rdb.Set(ctx, "user:1:email", "john@example.com", 0).Err(); err != nil {
		return err
	}
	// only set when absent
	if err := d.rdb.SetNX(ctx, "user:1:visits", 1, 0).Err(); err != nil {
		return err
	}
	if err := d.rdb.Incr(ctx, "user:1:visits").Err(); err != nil {
		return err
	}
	visits, err := d.rdb.Get(ctx, "user:1:visits").Result()
	if err != nil {
		return err
	}
	d.report.Printf("Visits: %s", visits)

	if err := d.rdb.SetEx(ctx, "temporary_key", "will expire in 60 seconds", time.Minute).Err(); err != nil {
		return err
	}
	ttl, err := d.rdb.TTL(ctx, "temporary_key").Result()
	if err != nil {
		return err
	}
	d.report.Printf("Time to live: %d seconds", int(ttl.Seconds()))
	return nil
}

// UserData is the value cached by the caching step.
type UserData struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Preferences map[string]string `json:"preferences"`
}

func slowLoader(delay time.Duration) func(context.Context, int) (UserData, error) {
	return func(ctx context.Context, userID int) (UserData, error) {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return UserData{}, ctx.Err()
		}
		return UserData{
			ID:          userID,
			Name:        "John Doe",
			Email:       "john@example.com",
			Preferences: map[string]string{"theme": "dark", "language": "en"},
		}, nil
	}
}

// GetUserData reads through the cache. The second return value reports a
// cache hit.
func (d *Demo) GetUserData(ctx context.Context, userID int) (UserData, bool, error) {
	key := fmt.Sprintf("user:%d:data", userID)

	cached, err := d.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var data UserData
		if err := json.Unmarshal([]byte(cached), &data); err != nil {
			return UserData{}, false, fmt.Errorf("failed to decode cached %s: %w", key, err)
		}
		return data, true, nil
	case !errors.Is(err, redis.Nil):
		return UserData{}, false, err
	}

	data, err := d.loader(ctx, userID)
	if err != nil {
		return UserData{}, false, err
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return UserData{}, false, err
	}
	if err := d.rdb.SetEx(ctx, key, encoded, cacheTTL).Err(); err != nil {
		return UserData{}, false, err
	}
	return data, false, nil
}

func (d *Demo) Caching(ctx context.Context) error {
	d.report.Section("Caching")

	for _, label := range []string{"First request", "Second request"} {
		start := time.Now()
		_, hit, err := d.GetUserData(ctx, 1)
		if err != nil {
			return err
		}
		if hit {
			d.report.Printf("Data served from cache")
		} else {
			d.report.Printf("Loading data from the database...")
		}
		d.report.Printf("%s: %.2f s", label, time.Since(start).Seconds())
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}

// CreateSession stores a new session hash and returns its id.
func (d *Demo) CreateSession(ctx context.Context, userID int) (string, error) {
	id := "sess_" + uuid.NewString()
	now := d.now().Format(time.RFC3339)

	key := sessionKey(id)
	if err := d.rdb.HSet(ctx, key, map[string]any{
		"user_id":       userID,
		"login_time":    now,
		"last_activity": now,
	}).Err(); err != nil {
		return "", err
	}
	if err := d.rdb.Expire(ctx, key, sessionTTL).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// GetSession returns the session fields, or nil when the session does not
// exist. Reading a session refreshes its activity time and expiry.
func (d *Demo) GetSession(ctx context.Context, id string) (map[string]string, error) {
	key := sessionKey(id)
	data, err := d.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	if err := d.rdb.HSet(ctx, key, "last_activity", d.now().Format(time.RFC3339)).Err(); err != nil {
		return nil, err
	}
	if err := d.rdb.Expire(ctx, key, sessionTTL).Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Demo) SessionManagement(ctx context.Context) error {
	d.report.Section("Session management")

	id, err := d.CreateSession(ctx, 1)
	if err != nil {
		return err
	}
	d.report.Printf("Created session: %s", id)

	session, err := d.GetSession(ctx, id)
	if err != nil {
		return err
	}
	d.report.Value("Session data", session)
	return nil
}

// CheckRateLimit counts a request in the current fixed window and reports
// whether it is within limit.
func (d *Demo) CheckRateLimit(ctx context.Context, userID, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%d", userID)

	count, err := d.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// first request opens the window
		if err := d.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

func (d *Demo) RateLimiting(ctx context.Context) error {
	d.report.Section("Rate limiting")

	for i := range 7 {
		allowed, err := d.CheckRateLimit(ctx, 1, rateLimit, rateLimitWindow)
		if err != nil {
			return err
		}
		verdict := "allowed"
		if !allowed {
			verdict = "rejected"
		}
		d.report.Printf("Request %d: %s", i+1, verdict)
	}
	return nil
}

// Event is published on the notifications channel.
type Event struct {
	Type      string `json:"type"`
	UserID    int    `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

func (d *Demo) PublishEvent(ctx context.Context, channel string, event Event) (int64, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return 0, err
	}
	return d.rdb.Publish(ctx, channel, payload).Result()
}

func (d *Demo) PubSub(ctx context.Context) error {
	d.report.Section("Publish and subscribe")

	receivers, err := d.PublishEvent(ctx, "notifications", Event{
		Type:      "user_registered",
		UserID:    1,
		Timestamp: d.now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	d.report.Printf("Event published to %d subscriber(s)", receivers)
	return nil
}

func (d *Demo) SortedSet(ctx context.Context) error {
	d.report.Section("Sorted sets")

	err := d.rdb.ZAdd(ctx, "leaderboard",
		redis.Z{Score: 100, Member: "player1"},
		redis.Z{Score: 200, Member: "player2"},
		redis.Z{Score: 150, Member: "player3"},
		redis.Z{Score: 300, Member: "player4"},
	).Err()
	if err != nil {
		return err
	}

	top, err := d.rdb.ZRevRangeWithScores(ctx, "leaderboard", 0, 2).Result()
	if err != nil {
		return err
	}
	d.report.Printf("Top 3 players:")
	for _, z := range top {
		d.report.Printf("%v: %d", z.Member, int(z.Score))
	}

	rank, err := d.rdb.ZRevRank(ctx, "leaderboard", "player1").Result()
	if err != nil {
		return err
	}
	d.report.Printf("Rank of player1: %d", rank+1)
	return nil
}
