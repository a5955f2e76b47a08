package columnar

const (
	userActionsTable = "user_actions"
	metricsTable     = "performance_metrics"
	minuteView       = "metrics_by_minute"
)

var dropStatements = []string{
	`DROP VIEW IF EXISTS ` + minuteView,
	`DROP TABLE IF EXISTS ` + userActionsTable,
	`DROP TABLE IF EXISTS ` + metricsTable,
}

const createUserActions = `
CREATE TABLE IF NOT EXISTS user_actions (
	timestamp DateTime,
	user_id UInt32,
	action String,
	page String,
	duration_ms UInt32,
	platform String,
	country String
)
ENGINE = MergeTree()
PARTITION BY toYYYYMM(timestamp)
ORDER BY (timestamp, user_id)`

const createPerformanceMetrics = `
CREATE TABLE IF NOT EXISTS performance_metrics (
	timestamp DateTime,
	service String,
	endpoint String,
	response_time_ms UInt32,
	status_code UInt16,
	error_type String DEFAULT '',
	data_size_bytes UInt32
)
ENGINE = MergeTree()
PARTITION BY toYYYYMM(timestamp)
ORDER BY (timestamp, service, endpoint)`

const createMetricsByMinute = `
CREATE MATERIALIZED VIEW IF NOT EXISTS metrics_by_minute
ENGINE = SummingMergeTree()
PARTITION BY toYYYYMM(minute)
ORDER BY (minute, service, endpoint)
AS SELECT
	toStartOfMinute(timestamp) AS minute,
	service,
	endpoint,
	count() AS requests,
	sum(response_time_ms) AS total_response_time,
	sum(data_size_bytes) AS total_data_size
FROM performance_metrics
GROUP BY minute, service, endpoint`

// createStatements run in order; the view depends on performance_metrics.
var createStatements = []string{
	createUserActions,
	createPerformanceMetrics,
	createMetricsByMinute,
}
