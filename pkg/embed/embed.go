// Package embed turns documents into vectors for the vector store tour.
//
// Chroma's server stores and searches vectors but does not compute them; the
// client is expected to embed text first. [Hash] needs no model and is
// deterministic, [Ollama] asks a local Ollama server for real embeddings.
package embed

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/ollama/ollama/api"
)

// Embedder returns one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Hash is a feature-hashing embedder: every lower-cased word is hashed to a
// bucket and a sign, and the resulting vector is L2 normalized. Texts that
// share words end up close to each other.
type Hash struct {
	Dimension int
}

func NewHash(dimension int) *Hash {
	return &Hash{Dimension: dimension}
}

func (h *Hash) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if h.Dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", h.Dimension)
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, h.embed(text))
	}
	return out, nil
}

func (h *Hash) embed(text string) []float32 {
	vec := make([]float32, h.Dimension)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		f := fnv.New64a()
		_, _ = f.Write([]byte(w))
		sum := f.Sum64()
		idx := int(sum % uint64(h.Dimension))
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

// Ollama calls the embed endpoint of an Ollama server.
type Ollama struct {
	client *api.Client
	model  string
}

func NewOllama(rawURL, model string) (*Ollama, error) {
	if model == "" {
		return nil, errors.New("ollama model is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}
	return &Ollama{client: api.NewClient(u, http.DefaultClient), model: model}, nil
}

func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.Embed(ctx, &api.EmbedRequest{
		Model: o.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// New picks an embedder by name: "hash" or "ollama".
func New(kind string, dimension int, ollamaURL, ollamaModel string) (Embedder, error) {
	switch kind {
	case "", "hash":
		return NewHash(dimension), nil
	case "ollama":
		return NewOllama(ollamaURL, ollamaModel)
	default:
		return nil, fmt.Errorf("unknown embedder %q", kind)
	}
}
