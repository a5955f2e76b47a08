package columnar

import (
	"time"

	"github.com/surrealdb/dbtour/internal/rand"
)

var (
	actions   = []string{"view", "click", "scroll", "submit"}
	pages     = []string{"/home", "/products", "/cart", "/checkout"}
	platforms = []string{"web", "mobile", "tablet"}
	countries = []string{"US", "UK", "DE", "FR", "JP"}
	services  = []string{"api", "web", "auth", "payment"}
	endpoints = []string{"/users", "/orders", "/products", "/auth"}
	// 3 in 5 requests succeed
	statusCodes = []uint16{200, 200, 200, 404, 500}
)

const minutesPerDay = 24 * 60

type UserAction struct {
	Timestamp  time.Time
	UserID     uint32
	Action     string
	Page       string
	DurationMS uint32
	Platform   string
	Country    string
}

func (a UserAction) values() []any {
	return []any{a.Timestamp, a.UserID, a.Action, a.Page, a.DurationMS, a.Platform, a.Country}
}

type Metric struct {
	Timestamp      time.Time
	Service        string
	Endpoint       string
	ResponseTimeMS uint32
	StatusCode     uint16
	ErrorType      string
	DataSizeBytes  uint32
}

func (m Metric) values() []any {
	return []any{m.Timestamp, m.Service, m.Endpoint, m.ResponseTimeMS, m.StatusCode, m.ErrorType, m.DataSizeBytes}
}

// within24h returns a whole-minute offset into the day before now. Second
// precision matches the DateTime columns.
func within24h(rng *rand.Rand, now time.Time) time.Time {
	return now.Truncate(time.Second).Add(-time.Duration(rng.IntRange(0, minutesPerDay)) * time.Minute)
}

func NewUserAction(rng *rand.Rand, now time.Time) UserAction {
	return UserAction{
		Timestamp:  within24h(rng, now),
		UserID:     uint32(rng.IntRange(1, 10001)),
		Action:     rand.Choice(rng, actions),
		Page:       rand.Choice(rng, pages),
		DurationMS: uint32(rng.IntRange(50, 5000)),
		Platform:   rand.Choice(rng, platforms),
		Country:    rand.Choice(rng, countries),
	}
}

func NewMetric(rng *rand.Rand, now time.Time) Metric {
	return Metric{
		Timestamp:      within24h(rng, now),
		Service:        rand.Choice(rng, services),
		Endpoint:       rand.Choice(rng, endpoints),
		ResponseTimeMS: uint32(rng.IntRange(10, 1000)),
		StatusCode:     rand.Choice(rng, statusCodes),
		DataSizeBytes:  uint32(rng.IntRange(100, 10000)),
	}
}

// span is the half-open row range [Start, End) of one insert batch.
type span struct {
	Start, End int
}

func batches(total, size int) []span {
	if total <= 0 || size <= 0 {
		return nil
	}
	out := make([]span, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		out = append(out, span{start, min(start+size, total)})
	}
	return out
}
