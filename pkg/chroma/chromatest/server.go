// Package chromatest provides an in-memory Chroma server for tests.
package chromatest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// Server is an in-memory stand-in for the parts of the Chroma v2 API the
// client uses. Queries rank by squared L2 distance and support $eq, $lt and
// $and filters. Only the default tenant and database exist.
type Server struct {
	mu          sync.Mutex
	collections map[string]*fakeCollection // by name
	requests    []string
}

type fakeCollection struct {
	ID       string
	Name     string
	Metadata map[string]any
	records  []fakeRecord
}

type fakeRecord struct {
	ID        string
	Embedding []float32
	Document  *string
	Metadata  map[string]any
}

// Start serves a new Server until the test ends and returns its base URL.
func Start(t testing.TB) (*Server, string) {
	t.Helper()
	fs := &Server{collections: map[string]*fakeCollection{}}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	return fs, srv.URL
}

// Requests returns "METHOD path" for every request served so far.
func (fs *Server) Requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.requests...)
}

// Count returns the number of records in the named collection, or -1 when
// it does not exist.
func (fs *Server) Count(name string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	col, ok := fs.collections[name]
	if !ok {
		return -1
	}
	return len(col.records)
}

// Collections returns the names of the existing collections.
func (fs *Server) Collections() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	names := make([]string, 0, len(fs.collections))
	for name := range fs.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const collectionsPrefix = "/api/v2/tenants/default_tenant/databases/default_database/collections"

func (fs *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.requests = append(fs.requests, r.Method+" "+r.URL.Path)

	if r.URL.Path == "/api/v2/heartbeat" {
		writeJSON(w, map[string]any{"nanosecond heartbeat": 1})
		return
	}
	if !strings.HasPrefix(r.URL.Path, collectionsPrefix) {
		http.Error(w, `{"error":"NotFound"}`, http.StatusNotFound)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, collectionsPrefix), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodPost:
		var req struct {
			Name     string         `json:"name"`
			Metadata map[string]any `json:"metadata"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		col, ok := fs.collections[req.Name]
		if !ok {
			col = &fakeCollection{ID: "id-" + req.Name, Name: req.Name, Metadata: req.Metadata}
			fs.collections[req.Name] = col
		}
		writeJSON(w, map[string]any{"id": col.ID, "name": col.Name, "metadata": col.Metadata})
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if _, ok := fs.collections[parts[0]]; !ok {
			http.Error(w, `{"error":"NotFoundError"}`, http.StatusNotFound)
			return
		}
		delete(fs.collections, parts[0])
		writeJSON(w, map[string]any{})
	case len(parts) == 2:
		col := fs.byID(parts[0])
		if col == nil {
			http.Error(w, `{"error":"NotFoundError"}`, http.StatusNotFound)
			return
		}
		switch parts[1] {
		case "add":
			fs.add(w, r, col)
		case "count":
			writeJSON(w, len(col.records))
		case "query":
			fs.query(w, r, col)
		default:
			http.Error(w, "", http.StatusNotFound)
		}
	default:
		http.Error(w, "", http.StatusMethodNotAllowed)
	}
}

func (fs *Server) byID(id string) *fakeCollection {
	for _, c := range fs.collections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (fs *Server) add(w http.ResponseWriter, r *http.Request, col *fakeCollection) {
	var req struct {
		IDs        []string         `json:"ids"`
		Embeddings [][]float32      `json:"embeddings"`
		Documents  []string         `json:"documents"`
		Metadatas  []map[string]any `json:"metadatas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for i, id := range req.IDs {
		rec := fakeRecord{ID: id, Embedding: req.Embeddings[i]}
		if i < len(req.Documents) {
			doc := req.Documents[i]
			rec.Document = &doc
		}
		if i < len(req.Metadatas) {
			rec.Metadata = req.Metadatas[i]
		}
		col.records = append(col.records, rec)
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{})
}

func (fs *Server) query(w http.ResponseWriter, r *http.Request, col *fakeCollection) {
	var req struct {
		QueryEmbeddings [][]float32    `json:"query_embeddings"`
		NResults        int            `json:"n_results"`
		Where           map[string]any `json:"where"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := map[string]any{}
	var ids [][]string
	var docs [][]*string
	var metas [][]map[string]any
	var dists [][]float64
	for _, q := range req.QueryEmbeddings {
		type scored struct {
			rec  fakeRecord
			dist float64
		}
		var candidates []scored
		for _, rec := range col.records {
			if !matches(rec.Metadata, req.Where) {
				continue
			}
			var d float64
			for i := range q {
				diff := float64(q[i] - rec.Embedding[i])
				d += diff * diff
			}
			candidates = append(candidates, scored{rec, d})
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
		if len(candidates) > req.NResults {
			candidates = candidates[:req.NResults]
		}
		var rowIDs []string
		var rowDocs []*string
		var rowMetas []map[string]any
		var rowDists []float64
		for _, c := range candidates {
			rowIDs = append(rowIDs, c.rec.ID)
			rowDocs = append(rowDocs, c.rec.Document)
			rowMetas = append(rowMetas, c.rec.Metadata)
			rowDists = append(rowDists, c.dist)
		}
		ids = append(ids, rowIDs)
		docs = append(docs, rowDocs)
		metas = append(metas, rowMetas)
		dists = append(dists, rowDists)
	}
	res["ids"] = ids
	res["documents"] = docs
	res["metadatas"] = metas
	res["distances"] = dists
	writeJSON(w, res)
}

func matches(meta, where map[string]any) bool {
	for key, cond := range where {
		if key == "$and" {
			for _, sub := range cond.([]any) {
				if !matches(meta, sub.(map[string]any)) {
					return false
				}
			}
			continue
		}
		ops, ok := cond.(map[string]any)
		if !ok {
			ops = map[string]any{"$eq": cond}
		}
		for op, want := range ops {
			got := meta[key]
			switch op {
			case "$eq":
				if got != want {
					return false
				}
			case "$lt":
				g, ok1 := got.(float64)
				w, ok2 := want.(float64)
				if !ok1 || !ok2 || !(g < w) {
					return false
				}
			}
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
