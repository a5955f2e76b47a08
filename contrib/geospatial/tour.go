package geospatial

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

const (
	fleetKey = "fleet"
	zonesKey = "zones"
	poisKey  = "pois"
	zoneID   = "city_center"
)

// Tour runs the Tile38 walkthrough.
type Tour struct {
	cfg    config.Tile38Config
	report *report.Report
	log    zerolog.Logger
}

func New(cfg config.Tile38Config, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{cfg: cfg, report: rep, log: log.With().Str("tour", "geospatial").Logger()}
}

func (t *Tour) Name() string { return "geospatial" }

func (t *Tour) Description() string {
	return "Tile38: points, geofences with webhooks, proximity search, routing"
}

func (t *Tour) Ping(ctx context.Context) error {
	rdb := Dial(t.cfg.Addr)
	defer rdb.Close()

	if err := NewClient(rdb).Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Tile38: %w", err)
	}
	return nil
}

func (t *Tour) Run(ctx context.Context) error {
	rdb := Dial(t.cfg.Addr)
	defer rdb.Close()

	err := NewDemo(NewClient(rdb), t.report, t.cfg.WebhookURL).RunAll(ctx)
	if err != nil {
		t.report.Printf("Error occurred: %v", err)
		return err
	}
	return t.report.Err()
}

// Demo holds the steps so they can run against any Doer.
type Demo struct {
	client  *Client
	report  *report.Report
	webhook string
}

func NewDemo(client *Client, rep *report.Report, webhook string) *Demo {
	return &Demo{client: client, report: rep, webhook: webhook}
}

func (d *Demo) RunAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"basic operations", d.BasicOperations},
		{"geofencing", d.Geofencing},
		{"proximity search", d.ProximitySearch},
		{"routing", d.Routing},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (d *Demo) BasicOperations(ctx context.Context) error {
	d.report.Section("Basic operations")

	couriers := []struct {
		id     string
		pos    Point
		fields map[string]string
	}{
		{"courier1", Point{52.25, 13.37}, nil},
		{"courier2", Point{40.7128, -74.0060}, nil},
		{"courier3", Point{51.5074, -0.1278}, map[string]string{
			"name":    "John Doe",
			"vehicle": "bike",
			"status":  "active",
		}},
	}
	for _, c := range couriers {
		if err := d.client.Do(ctx, nil, SetPoint(fleetKey, c.id, c.pos, c.fields)...); err != nil {
			return err
		}
	}

	obj, err := d.client.Get(ctx, fleetKey, "courier1")
	if err != nil {
		return err
	}
	d.report.Value("Basic operations result", obj)
	return nil
}

// cityCenter is a small square in Berlin, in GeoJSON lon/lat order.
var cityCenter = map[string]any{
	"type": "Polygon",
	"coordinates": [][][2]float64{{
		{13.37, 52.25},
		{13.38, 52.25},
		{13.38, 52.26},
		{13.37, 52.26},
		{13.37, 52.25},
	}},
}

func (d *Demo) Geofencing(ctx context.Context) error {
	d.report.Section("Geofencing")

	set, err := SetObject(zonesKey, zoneID, cityCenter)
	if err != nil {
		return err
	}
	if err := d.client.Do(ctx, nil, set...); err != nil {
		return err
	}

	inside, err := d.client.Objects(ctx, Within(fleetKey, zonesKey, zoneID)...)
	if err != nil {
		return err
	}

	hook := SetHook(Hook{
		Name:     "city_alerts",
		Endpoint: d.webhook,
		Key:      fleetKey,
		AreaKey:  zonesKey,
		AreaID:   zoneID,
		Detect:   []string{"enter", "exit"},
	})
	if err := d.client.Do(ctx, nil, hook...); err != nil {
		return err
	}
	d.report.Value("Geofencing result", inside.Objects)
	return nil
}

func (d *Demo) ProximitySearch(ctx context.Context) error {
	d.report.Section("Proximity search")

	pois := []struct {
		id   string
		pos  Point
		name string
	}{
		{"restaurant1", Point{52.25, 13.37}, "Pizza Place"},
		{"restaurant2", Point{52.26, 13.37}, "Sushi Bar"},
		{"restaurant3", Point{52.25, 13.38}, "Burger Joint"},
	}
	for _, p := range pois {
		fields := map[string]string{"name": p.name, "type": "restaurant"}
		if err := d.client.Do(ctx, nil, SetPoint(poisKey, p.id, p.pos, fields)...); err != nil {
			return err
		}
	}

	nearby, err := d.client.Objects(ctx, Nearby(poisKey, Point{52.25, 13.37}, 1000)...)
	if err != nil {
		return err
	}
	d.report.Value("Nearby places", nearby.Objects)
	return nil
}

func (d *Demo) Routing(ctx context.Context) error {
	d.report.Section("Routing")

	route := []Point{
		{52.25, 13.37},
		{52.26, 13.37},
		{52.25, 13.38},
	}
	for _, p := range route {
		if err := d.client.Do(ctx, nil, SetPoint(fleetKey, "courier1", p, nil)...); err != nil {
			return err
		}
	}

	fleet, err := d.client.Objects(ctx, Scan(fleetKey)...)
	if err != nil {
		return err
	}
	d.report.Value("Route history", fleet.Objects)
	return nil
}
