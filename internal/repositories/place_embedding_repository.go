package repositories

import (
	"context"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"iter/internal/models/db_models"
)

type PlaceEmbeddingRepository interface {
	UpsertEmbedding(ctx context.Context, e *db_models.PlaceEmbedding) error
	// FindSimilar orders by cosine distance and drops matches below minSimilarity.
	FindSimilar(ctx context.Context, vector pgvector.Vector, city string, excludeIDs []int64, minSimilarity float64, limit int) ([]db_models.PlaceEmbedding, error)
}

type placeEmbeddingRepository struct {
	db *gorm.DB
}

func NewPlaceEmbeddingRepository(db *gorm.DB) PlaceEmbeddingRepository {
	return &placeEmbeddingRepository{db: db}
}

func (r *placeEmbeddingRepository) UpsertEmbedding(ctx context.Context, e *db_models.PlaceEmbedding) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "city", "tags", "embedding"}),
	}).Create(e).Error
}

func (r *placeEmbeddingRepository) FindSimilar(
	ctx context.Context,
	vector pgvector.Vector,
	city string,
	excludeIDs []int64,
	minSimilarity float64,
	limit int,
) ([]db_models.PlaceEmbedding, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
        SELECT place_id, name, description, city, tags, embedding, created_at,
               (1 - (embedding <=> ?)) AS similarity
        FROM place_embeddings
        WHERE (? = '' OR LOWER(city) = LOWER(?))
          AND NOT (place_id = ANY(?))
          AND (1 - (embedding <=> ?)) > ?
        ORDER BY embedding <=> ?
        LIMIT ?
    `

	exclude := pq.Int64Array(excludeIDs)
	if exclude == nil {
		exclude = pq.Int64Array{}
	}

	var results []db_models.PlaceEmbedding
	err := r.db.WithContext(ctx).
		Raw(query, vector, city, city, exclude, vector, minSimilarity, vector, limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
