package timeseries

import (
	"fmt"
	"math"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/surrealdb/dbtour/internal/rand"
)

const measurement = "sensor_readings"

// Reading is one simulated sensor sample.
type Reading struct {
	SensorID    string
	Location    string
	Temperature float64
	Humidity    float64
	Time        time.Time
}

// Point converts r to an InfluxDB point tagged by sensor and location.
func (r Reading) Point() *write.Point {
	return write.NewPoint(measurement,
		map[string]string{
			"sensor_id": r.SensorID,
			"location":  r.Location,
		},
		map[string]any{
			"temperature": r.Temperature,
			"humidity":    r.Humidity,
		},
		r.Time,
	)
}

// GenerateReadings returns one reading per minute for the last minutes
// minutes ending at now, for sensors 1..sensors. Temperature follows a sine
// around 20 and humidity a cosine around 50, both with gaussian noise.
func GenerateReadings(rng *rand.Rand, now time.Time, sensors, minutes int) []Reading {
	out := make([]Reading, 0, sensors*minutes)
	for s := 1; s <= sensors; s++ {
		for m := range minutes {
			x := float64(m) / 10
			out = append(out, Reading{
				SensorID:    fmt.Sprintf("sensor_%d", s),
				Location:    fmt.Sprintf("room_%d", s),
				Temperature: 20 + math.Sin(x) + rng.Norm(0, 0.5),
				Humidity:    50 + math.Cos(x) + rng.Norm(0, 2),
				Time:        now.Add(-time.Duration(m) * time.Minute),
			})
		}
	}
	return out
}
