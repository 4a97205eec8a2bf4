package novelty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/pkg/metric"
)

// Qdrant stores entry vectors as points in a single cosine-distance
// collection. Point ids are derived deterministically from entry ids.
type Qdrant struct {
	client     *qdrant.Client
	collection string
	deadline   time.Duration
}

func newQdrant(cfg structs.Configs) (*Qdrant, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.QdrantHost,
		Port: cfg.QdrantPort,
		GrpcOptions: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy":"round_robin"}`),
		},
	})
	if err != nil {
		log.Error().Msgf("Could not create qdrant client: %v", err)
		return nil, err
	}
	deadline := time.Duration(cfg.QdrantDeadlineMs) * time.Millisecond
	if deadline <= 0 {
		deadline = 5 * time.Second
	}
	q := &Qdrant{
		client:     client,
		collection: cfg.QdrantCollection,
		deadline:   deadline,
	}
	if err := q.ensureCollection(uint64(cfg.EmbeddingDimension)); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Qdrant) ensureCollection(dimension uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), q.deadline)
	defer cancel()
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		log.Error().Msgf("Failed to check collection %s: %v", q.collection, err)
		return err
	}
	if exists {
		return nil
	}
	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrant.VectorsConfig{Config: &qdrant.VectorsConfig_Params{
			Params: &qdrant.VectorParams{
				Size:     dimension,
				Distance: qdrant.Distance_Cosine,
			},
		}},
	})
	if err != nil {
		log.Error().Msgf("Failed to create collection %s: %v", q.collection, err)
		return err
	}
	log.Info().Msgf("Collection created: %v", q.collection)
	return nil
}

func pointID(id string) *qdrant.PointId {
	return &qdrant.PointId{
		PointIdOptions: &qdrant.PointId_Uuid{
			Uuid: uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String(),
		},
	}
}

func (q *Qdrant) Insert(ctx context.Context, id string, vector []float32) error {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, q.deadline)
	defer cancel()
	wait := true
	pointsClient := qdrant.NewPointsClient(q.client.GetConnection())
	_, err := pointsClient.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id:      pointID(id),
				Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: vector}}},
			},
		},
	})
	if err != nil {
		metric.Incr("novelty_index_insert_error", []string{"index_type:qdrant"})
		log.Error().Msgf("Could not upsert point %s: %v", id, err)
		return err
	}
	metric.Timing("novelty_index_insert_latency", time.Since(startTime), []string{"index_type:qdrant"})
	return nil
}

func (q *Qdrant) NearestSimilarities(ctx context.Context, vector []float32, limit int, excludeID string) ([]float64, error) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, q.deadline)
	defer cancel()
	search := &qdrant.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(limit),
	}
	if excludeID != "" {
		search.Filter = &qdrant.Filter{
			MustNot: []*qdrant.Condition{{
				ConditionOneOf: &qdrant.Condition_HasId{
					HasId: &qdrant.HasIdCondition{HasId: []*qdrant.PointId{pointID(excludeID)}},
				},
			}},
		}
	}
	pointsClient := qdrant.NewPointsClient(q.client.GetConnection())
	response, err := pointsClient.Search(ctx, search)
	if err != nil {
		metric.Incr("novelty_index_query_error", []string{"index_type:qdrant"})
		log.Error().Msgf("Could not search points: %v", err)
		return nil, err
	}
	metric.Timing("novelty_index_query_latency", time.Since(startTime), []string{"index_type:qdrant"})
	results := response.GetResult()
	sims := make([]float64, 0, len(results))
	for _, result := range results {
		sims = append(sims, float64(result.GetScore()))
	}
	return sims, nil
}

func (q *Qdrant) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, q.deadline)
	defer cancel()
	exact := true
	pointsClient := qdrant.NewPointsClient(q.client.GetConnection())
	response, err := pointsClient.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, err
	}
	return int64(response.GetResult().GetCount()), nil
}
