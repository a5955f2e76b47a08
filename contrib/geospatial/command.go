package geospatial

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

// SetPoint builds SET key id [FIELD name value ...] POINT lat lon. Fields
// are emitted in name order.
func SetPoint(key, id string, p Point, fields map[string]string) []any {
	args := []any{"SET", key, id}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, "FIELD", name, fields[name])
	}
	return append(args, "POINT", p.Lat, p.Lon)
}

// SetObject builds SET key id OBJECT <geojson>.
func SetObject(key, id string, geojson any) ([]any, error) {
	b, err := json.Marshal(geojson)
	if err != nil {
		return nil, err
	}
	return []any{"SET", key, id, "OBJECT", string(b)}, nil
}

func Get(key, id string, withFields bool) []any {
	args := []any{"GET", key, id}
	if withFields {
		args = append(args, "WITHFIELDS")
	}
	return args
}

// Within builds WITHIN key GET areaKey areaID, matching objects of key that
// lie inside a stored area.
func Within(key, areaKey, areaID string) []any {
	return []any{"WITHIN", key, "GET", areaKey, areaID}
}

// Nearby builds NEARBY key POINT lat lon meters.
func Nearby(key string, p Point, meters float64) []any {
	return []any{"NEARBY", key, "POINT", p.Lat, p.Lon, meters}
}

func Scan(key string) []any {
	return []any{"SCAN", key}
}

// Hook describes a geofence webhook on a stored area.
type Hook struct {
	Name     string
	Endpoint string
	Key      string
	AreaKey  string
	AreaID   string
	Detect   []string
}

// SetHook builds SETHOOK name endpoint WITHIN key FENCE [DETECT ...] GET
// areaKey areaID.
func SetHook(h Hook) []any {
	args := []any{"SETHOOK", h.Name, h.Endpoint, "WITHIN", h.Key, "FENCE"}
	if len(h.Detect) > 0 {
		args = append(args, "DETECT", strings.Join(h.Detect, ","))
	}
	return append(args, "GET", h.AreaKey, h.AreaID)
}
