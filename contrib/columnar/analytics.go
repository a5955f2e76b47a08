package columnar

import "time"

// Column types are chosen to match what the server returns: count and
// uniq are UInt64, avg and quantile are Float64.

type HourlyActivity struct {
	Hour        time.Time `ch:"hour"`
	Actions     uint64    `ch:"actions"`
	UniqueUsers uint64    `ch:"unique_users"`
	AvgDuration float64   `ch:"avg_duration"`
}

const hourlyActivityQuery = `
SELECT
	toStartOfHour(timestamp) AS hour,
	count() AS actions,
	uniq(user_id) AS unique_users,
	avg(duration_ms) AS avg_duration
FROM user_actions
WHERE timestamp >= now() - INTERVAL 24 HOUR
GROUP BY hour
ORDER BY hour`

type PlatformCountry struct {
	Platform string `ch:"platform"`
	Country  string `ch:"country"`
	Actions  uint64 `ch:"actions"`
	Users    uint64 `ch:"users"`
}

const platformCountryQuery = `
SELECT
	platform,
	country,
	count() AS actions,
	uniq(user_id) AS users
FROM user_actions
GROUP BY platform, country
ORDER BY users DESC
LIMIT 10`

type ServicePerformance struct {
	Service         string  `ch:"service"`
	Endpoint        string  `ch:"endpoint"`
	Requests        uint64  `ch:"requests"`
	AvgResponseTime float64 `ch:"avg_response_time"`
	P95ResponseTime float64 `ch:"p95_response_time"`
	Errors          uint64  `ch:"errors"`
}

const servicePerformanceQuery = `
SELECT
	service,
	endpoint,
	count() AS requests,
	avg(response_time_ms) AS avg_response_time,
	quantile(0.95)(response_time_ms) AS p95_response_time,
	toUInt64(countIf(status_code = 500)) AS errors
FROM performance_metrics
GROUP BY service, endpoint
ORDER BY avg_response_time DESC
LIMIT 10`

type CohortRetention struct {
	CohortDate  time.Time `ch:"cohort_date"`
	DayNumber   int64     `ch:"day_number"`
	ActiveUsers uint64    `ch:"active_users"`
}

// cohortRetentionQuery assigns every user to the day of their first action
// and counts how many of each cohort were active N days later.
const cohortRetentionQuery = `
WITH first_seen AS (
	SELECT user_id, toDate(min(timestamp)) AS cohort_date
	FROM user_actions
	GROUP BY user_id
)
SELECT
	f.cohort_date AS cohort_date,
	toInt64(dateDiff('day', f.cohort_date, toDate(a.timestamp))) AS day_number,
	uniqExact(a.user_id) AS active_users
FROM user_actions AS a
INNER JOIN first_seen AS f ON a.user_id = f.user_id
GROUP BY cohort_date, day_number
HAVING day_number >= 0
ORDER BY cohort_date, day_number
LIMIT 10`

type MinuteMetrics struct {
	Minute          time.Time `ch:"minute"`
	Service         string    `ch:"service"`
	Endpoint        string    `ch:"endpoint"`
	Requests        uint64    `ch:"requests"`
	AvgResponseTime float64   `ch:"avg_response_time"`
}

// The view may hold several unmerged parts per key, so the query sums them.
const latestMinutesQuery = `
SELECT
	minute,
	service,
	endpoint,
	toUInt64(sum(requests)) AS requests,
	sum(total_response_time) / sum(requests) AS avg_response_time
FROM metrics_by_minute
GROUP BY minute, service, endpoint
ORDER BY minute DESC
LIMIT 5`
