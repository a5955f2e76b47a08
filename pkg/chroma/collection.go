package chroma

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Metadata values must be strings, numbers or booleans.
type Metadata map[string]any

// Collection is a named set of records with a fixed vector dimension.
type Collection struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`

	client *Client
}

type createCollectionRequest struct {
	Name        string   `json:"name"`
	Metadata    Metadata `json:"metadata,omitempty"`
	GetOrCreate bool     `json:"get_or_create"`
}

// CreateCollection creates the collection, or returns the existing one
// with the same name.
func (c *Client) CreateCollection(ctx context.Context, name string, metadata Metadata) (*Collection, error) {
	col := &Collection{client: c}
	err := c.Request(ctx, http.MethodPost, c.collectionsPath(), createCollectionRequest{
		Name:        name,
		Metadata:    metadata,
		GetOrCreate: true,
	}, col)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return col, nil
}

// DeleteCollection removes the collection. Deleting a collection that does
// not exist is not an error.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	err := c.Request(ctx, http.MethodDelete, c.collectionsPath()+"/"+url.PathEscape(name), nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}

// Records is the column oriented batch accepted by Add. IDs is required;
// every other column is either empty or as long as IDs.
type Records struct {
	IDs        []string    `json:"ids"`
	Embeddings [][]float32 `json:"embeddings,omitempty"`
	Documents  []string    `json:"documents,omitempty"`
	Metadatas  []Metadata  `json:"metadatas,omitempty"`
}

func (r Records) validate() error {
	n := len(r.IDs)
	if n == 0 {
		return errors.New("at least one id is required")
	}
	if len(r.Embeddings) != n {
		return fmt.Errorf("got %d embeddings for %d ids", len(r.Embeddings), n)
	}
	if len(r.Documents) != 0 && len(r.Documents) != n {
		return fmt.Errorf("got %d documents for %d ids", len(r.Documents), n)
	}
	if len(r.Metadatas) != 0 && len(r.Metadatas) != n {
		return fmt.Errorf("got %d metadatas for %d ids", len(r.Metadatas), n)
	}
	return nil
}

func (col *Collection) path(op string) string {
	return col.client.collectionsPath() + "/" + url.PathEscape(col.ID) + "/" + op
}

// Add inserts records. Embeddings are required; the server does not
// compute them.
func (col *Collection) Add(ctx context.Context, records Records) error {
	if err := records.validate(); err != nil {
		return fmt.Errorf("invalid records for %s: %w", col.Name, err)
	}
	if err := col.client.Request(ctx, http.MethodPost, col.path("add"), records, nil); err != nil {
		return fmt.Errorf("failed to add to %s: %w", col.Name, err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (col *Collection) Count(ctx context.Context) (int, error) {
	var n int
	if err := col.client.Request(ctx, http.MethodGet, col.path("count"), nil, &n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", col.Name, err)
	}
	return n, nil
}

// Query asks for the nearest neighbours of one or more vectors.
type Query struct {
	Embeddings [][]float32
	NResults   int
	// Where filters on metadata, e.g. {"category": {"$eq": "electronics"}}
	Where map[string]any
}

type queryRequest struct {
	QueryEmbeddings [][]float32    `json:"query_embeddings"`
	NResults        int            `json:"n_results"`
	Where           map[string]any `json:"where,omitempty"`
	Include         []string       `json:"include"`
}

// QueryResult holds one row of matches per query vector.
type QueryResult struct {
	IDs       [][]string   `json:"ids"`
	Documents [][]*string  `json:"documents"`
	Metadatas [][]Metadata `json:"metadatas"`
	Distances [][]float64  `json:"distances"`
}

// Match is a single neighbour.
type Match struct {
	ID       string
	Document string
	Metadata Metadata
	Distance float64
}

// Matches flattens the results of the i-th query vector.
func (r *QueryResult) Matches(i int) []Match {
	if i >= len(r.IDs) {
		return nil
	}
	out := make([]Match, 0, len(r.IDs[i]))
	for j, id := range r.IDs[i] {
		m := Match{ID: id}
		if i < len(r.Documents) && j < len(r.Documents[i]) && r.Documents[i][j] != nil {
			m.Document = *r.Documents[i][j]
		}
		if i < len(r.Metadatas) && j < len(r.Metadatas[i]) {
			m.Metadata = r.Metadatas[i][j]
		}
		if i < len(r.Distances) && j < len(r.Distances[i]) {
			m.Distance = r.Distances[i][j]
		}
		out = append(out, m)
	}
	return out
}

func (col *Collection) Query(ctx context.Context, q Query) (*QueryResult, error) {
	if len(q.Embeddings) == 0 {
		return nil, errors.New("at least one query embedding is required")
	}
	if q.NResults <= 0 {
		q.NResults = 10
	}
	var res QueryResult
	err := col.client.Request(ctx, http.MethodPost, col.path("query"), queryRequest{
		QueryEmbeddings: q.Embeddings,
		NResults:        q.NResults,
		Where:           q.Where,
		Include:         []string{"documents", "metadatas", "distances"},
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", col.Name, err)
	}
	return &res, nil
}
