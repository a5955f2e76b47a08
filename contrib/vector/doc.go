// Package vector walks through Chroma: text similarity search, search over
// stand-in image vectors and a filtered product search.
//
// Chroma's HTTP API stores vectors only, so documents are embedded on the
// client by a [github.com/surrealdb/dbtour/pkg/embed.Embedder]. Each
// collection is deleted and recreated so repeated runs see the same data.
package vector
