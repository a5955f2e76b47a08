package vector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/internal/rand"
	"github.com/surrealdb/dbtour/pkg/chroma"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/embed"
	"github.com/surrealdb/dbtour/pkg/report"
)

const nResults = 2

// Tour runs the Chroma walkthrough.
type Tour struct {
	cfg    config.ChromaConfig
	report *report.Report
	log    zerolog.Logger
	rng    *rand.Rand
}

func New(cfg config.ChromaConfig, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{
		cfg:    cfg,
		report: rep,
		log:    log.With().Str("tour", "vector").Logger(),
		rng:    rand.New(),
	}
}

func (t *Tour) Name() string { return "vector" }

func (t *Tour) Description() string {
	return "Chroma: text similarity, image vectors, filtered product search"
}

func (t *Tour) client() *chroma.Client {
	return chroma.New(t.cfg.URL, t.cfg.Tenant, t.cfg.Database)
}

func (t *Tour) Ping(ctx context.Context) error {
	if err := t.client().Heartbeat(ctx); err != nil {
		return fmt.Errorf("failed to connect to Chroma: %w", err)
	}
	return nil
}

func (t *Tour) Run(ctx context.Context) error {
	embedder, err := embed.New(t.cfg.Embedder, t.cfg.Dimension, t.cfg.OllamaURL, t.cfg.OllamaModel)
	if err != nil {
		return err
	}
	t.log.Debug().Str("embedder", t.cfg.Embedder).Msg("embedder ready")

	client := t.client()
	if err := client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("failed to connect to Chroma: %w", err)
	}

	demo := &Demo{
		Client:    client,
		Embedder:  embedder,
		Rand:      t.rng,
		Dimension: t.cfg.Dimension,
		Report:    t.report,
	}
	return demo.RunAll(ctx)
}

// Demo holds what the search steps share.
type Demo struct {
	Client   *chroma.Client
	Embedder embed.Embedder
	Rand     *rand.Rand
	// Dimension of the random image and product vectors
	Dimension int
	Report    *report.Report
}

func (d *Demo) RunAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"text search", d.TextSearch},
		{"image search", d.ImageSearch},
		{"semantic search", d.SemanticSearch},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return d.Report.Err()
}

// recreate drops any collection left by an earlier run and creates it anew.
func (d *Demo) recreate(ctx context.Context, name string, metadata chroma.Metadata) (*chroma.Collection, error) {
	if err := d.Client.DeleteCollection(ctx, name); err != nil {
		return nil, err
	}
	return d.Client.CreateCollection(ctx, name, metadata)
}

func (d *Demo) randomVectors(n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = d.Rand.Float32s(d.Dimension)
	}
	return out
}

var textDocuments = []string{
	"Python is a popular programming language",
	"JavaScript is used for web development",
	"Machine learning is a subset of artificial intelligence",
	"Deep learning uses neural networks",
	"Python is great for AI development",
}

func (d *Demo) TextSearch(ctx context.Context) error {
	col, err := d.recreate(ctx, "normative_documents", nil)
	if err != nil {
		return err
	}

	embeddings, err := d.Embedder.Embed(ctx, textDocuments)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}
	ids := make([]string, len(textDocuments))
	for i := range ids {
		ids[i] = fmt.Sprintf("doc_%d", i)
	}
	if err := col.Add(ctx, chroma.Records{IDs: ids, Embeddings: embeddings, Documents: textDocuments}); err != nil {
		return err
	}

	query, err := d.Embedder.Embed(ctx, []string{"programming with Python"})
	if err != nil {
		return fmt.Errorf("failed to embed query: %w", err)
	}
	res, err := col.Query(ctx, chroma.Query{Embeddings: query, NResults: nResults})
	if err != nil {
		return err
	}

	d.Report.Section("Similar texts")
	for i, m := range res.Matches(0) {
		d.Report.Printf("Match %d: %s", i+1, m.Document)
		d.Report.Printf("Distance: %.4f", m.Distance)
	}
	return nil
}

func (d *Demo) ImageSearch(ctx context.Context) error {
	col, err := d.recreate(ctx, "image_vectors", nil)
	if err != nil {
		return err
	}

	const images = 5
	ids := make([]string, images)
	metadatas := make([]chroma.Metadata, images)
	for i := range images {
		category := "cat"
		if i >= 3 {
			category = "dog"
		}
		ids[i] = fmt.Sprintf("img_%d", i)
		metadatas[i] = chroma.Metadata{"filename": fmt.Sprintf("image_%d.jpg", i), "category": category}
	}
	if err := col.Add(ctx, chroma.Records{IDs: ids, Embeddings: d.randomVectors(images), Metadatas: metadatas}); err != nil {
		return err
	}

	res, err := col.Query(ctx, chroma.Query{Embeddings: d.randomVectors(1), NResults: nResults})
	if err != nil {
		return err
	}

	d.Report.Section("Similar images")
	for i, m := range res.Matches(0) {
		d.Report.Printf("Match %d: %s", i+1, m.ID)
		d.Report.Printf("Metadata: %s, %s", m.Metadata["filename"], m.Metadata["category"])
		d.Report.Printf("Distance: %.4f", m.Distance)
	}
	return nil
}

type product struct {
	text     string
	metadata chroma.Metadata
}

var products = []product{
	{"iPhone 13 Pro, high-end smartphone with great camera",
		chroma.Metadata{"category": "electronics", "price": 999, "brand": "Apple"}},
	{"Samsung Galaxy S21, powerful Android phone",
		chroma.Metadata{"category": "electronics", "price": 799, "brand": "Samsung"}},
	{"MacBook Pro 16, professional laptop for developers",
		chroma.Metadata{"category": "computers", "price": 2399, "brand": "Apple"}},
}

// ProductFilter matches a category below a price.
func ProductFilter(category string, maxPrice float64) map[string]any {
	return map[string]any{"$and": []any{
		map[string]any{"category": map[string]any{"$eq": category}},
		map[string]any{"price": map[string]any{"$lt": maxPrice}},
	}}
}

func (d *Demo) SemanticSearch(ctx context.Context) error {
	col, err := d.recreate(ctx, "products", chroma.Metadata{"description": "Product catalog"})
	if err != nil {
		return err
	}

	ids := make([]string, len(products))
	docs := make([]string, len(products))
	metadatas := make([]chroma.Metadata, len(products))
	for i, p := range products {
		ids[i] = fmt.Sprintf("prod_%d", i)
		docs[i] = p.text
		metadatas[i] = p.metadata
	}
	err = col.Add(ctx, chroma.Records{
		IDs:        ids,
		Embeddings: d.randomVectors(len(products)),
		Documents:  docs,
		Metadatas:  metadatas,
	})
	if err != nil {
		return err
	}

	res, err := col.Query(ctx, chroma.Query{
		Embeddings: d.randomVectors(1),
		NResults:   nResults,
		Where:      ProductFilter("electronics", 1000),
	})
	if err != nil {
		return err
	}

	d.Report.Section("Semantic search with filter")
	for i, m := range res.Matches(0) {
		d.Report.Printf("Match %d: %s", i+1, m.Document)
		d.Report.Value("Metadata", m.Metadata)
		d.Report.Printf("Distance: %.4f", m.Distance)
	}
	return nil
}
