package utils

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the vector(1536) column of place_embeddings.
const EmbeddingDimensions = 1536

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// HashEmbeddingClient is the offline embedding: a normalised hashed
// bag-of-words. Identical text always yields the identical vector.
type HashEmbeddingClient struct{}

func NewHashEmbeddingClient() *HashEmbeddingClient {
	return &HashEmbeddingClient{}
}

func (HashEmbeddingClient) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector(HashVector(text)), nil
}

func HashVector(text string) []float32 {
	vector := make([]float32, EmbeddingDimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		sum := h.Sum32()
		for i := range vector {
			vector[i] += float32(math.Sin(float64(sum+uint32(i))) * 0.1)
		}
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}
	return vector
}
