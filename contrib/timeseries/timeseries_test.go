package timeseries

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/dbtour/contrib/testenv"
	"github.com/surrealdb/dbtour/internal/rand"
	"github.com/surrealdb/dbtour/pkg/report"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateReadings(t *testing.T) {
	readings := GenerateReadings(rand.NewSeeded(1, 2), testNow, 3, 60)
	require.Len(t, readings, 180)

	assert.Equal(t, "sensor_1", readings[0].SensorID)
	assert.Equal(t, "room_1", readings[0].Location)
	assert.Equal(t, testNow, readings[0].Time)
	assert.Equal(t, testNow.Add(-59*time.Minute), readings[59].Time)
	assert.Equal(t, "sensor_3", readings[179].SensorID)

	for _, r := range readings {
		assert.InDelta(t, 20, r.Temperature, 4)
		assert.InDelta(t, 50, r.Humidity, 12)
	}
}

func TestGenerateReadingsDeterministic(t *testing.T) {
	a := GenerateReadings(rand.NewSeeded(7, 7), testNow, 2, 5)
	b := GenerateReadings(rand.NewSeeded(7, 7), testNow, 2, 5)
	assert.Equal(t, a, b)
}

func TestReadingPoint(t *testing.T) {
	r := Reading{
		SensorID:    "sensor_2",
		Location:    "room_2",
		Temperature: 21.5,
		Humidity:    48,
		Time:        testNow,
	}
	line := write.PointToLineProtocol(r.Point(), time.Second)
	assert.True(t, strings.HasPrefix(line, "sensor_readings,location=room_2,sensor_id=sensor_2 "), line)
	assert.Contains(t, line, "temperature=21.5")
	assert.Contains(t, line, " 1709294400")
}

const csvHeader = "#datatype,string,long,dateTime:RFC3339,dateTime:RFC3339,dateTime:RFC3339,double,string,string,string,string\n" +
	"#group,false,false,true,true,false,false,true,true,true,true\n" +
	"#default,_result,,,,,,,,,\n" +
	",result,table,_start,_stop,_time,_value,_field,_measurement,location,sensor_id\n"

func csvRow(table, ts, value, sensor string) string {
	return ",," + table + ",2024-03-01T11:00:00Z,2024-03-01T12:00:00Z," + ts + "," + value +
		",temperature,sensor_readings,room_1," + sensor + "\n"
}

// fakeInflux accepts writes and answers every query with the same table.
type fakeInflux struct {
	mu      sync.Mutex
	written []string
	queries []string
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/ping":
		w.WriteHeader(http.StatusNoContent)
	case "/api/v2/write":
		f.written = append(f.written, string(body))
		w.WriteHeader(http.StatusNoContent)
	case "/api/v2/query":
		var req struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.queries = append(f.queries, req.Query)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		io.WriteString(w, csvHeader+
			csvRow("0", "2024-03-01T11:30:00Z", "22.75", "sensor_1")+
			csvRow("0", "2024-03-01T11:31:00Z", "23", "sensor_1")+
			"\n")
	default:
		http.NotFound(w, r)
	}
}

func TestDemoRunAll(t *testing.T) {
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := influxdb2.NewClient(srv.URL, "token")
	defer client.Close()

	var out bytes.Buffer
	demo := &Demo{
		Writer: client.WriteAPIBlocking("myorg", "mybucket"),
		Reader: client.QueryAPI("myorg"),
		Bucket: "mybucket",
		Report: report.New(&out),
		Rand:   rand.NewSeeded(1, 1),
		Now:    testNow,
	}
	require.NoError(t, demo.RunAll(context.Background()))

	require.Len(t, fake.written, 1)
	assert.Equal(t, 180, strings.Count(fake.written[0], "sensor_readings,"))

	require.Len(t, fake.queries, 4)
	assert.Contains(t, fake.queries[0], "mean()")
	assert.Contains(t, fake.queries[1], "window(every: 10m)")
	assert.Contains(t, fake.queries[2], `r["_value"] > 22.0`)
	assert.Contains(t, fake.queries[3], "derivative(unit: 1m)")

	text := out.String()
	assert.Contains(t, text, "Data written successfully: 180 points")
	assert.Contains(t, text, "Sensor: sensor_1, mean temperature: 22.75°C")
	assert.Contains(t, text, "Time: 2024-03-01T11:31:00Z, Sensor: sensor_1, Temperature: 23.00°C")
	assert.Contains(t, text, "Change rate: 22.750°C/min")
}

func TestTourPing(t *testing.T) {
	srv := httptest.NewServer(&fakeInflux{})
	defer srv.Close()

	tour := &Tour{report: report.New(io.Discard), rng: rand.NewSeeded(1, 1)}
	tour.cfg.URL = srv.URL
	require.NoError(t, tour.Ping(context.Background()))
}

func TestRunIntegration(t *testing.T) {
	cfg := testenv.Config(t)

	var out bytes.Buffer
	tour := New(cfg.Influx, report.New(&out), testenv.Logger(t))
	require.NoError(t, tour.Run(context.Background()))
	assert.Contains(t, out.String(), "=== Mean temperature over the last hour ===")
}
