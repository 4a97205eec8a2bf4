package novelty

import (
	"context"
)

// Database is the novelty index over combined clip embeddings. Insert is an
// upsert keyed by entry id, so redelivery of an already committed entry does
// not create a second point.
type Database interface {
	// Insert stores an entry vector under the given id, replacing any vector
	// previously stored under it.
	Insert(ctx context.Context, id string, vector []float32) error
	// NearestSimilarities returns the cosine similarities of the up to limit
	// most similar stored vectors, in descending order. Points stored under
	// excludeID are skipped, so an entry never matches its own earlier
	// insert.
	NearestSimilarities(ctx context.Context, vector []float32, limit int, excludeID string) ([]float64, error)
	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}
