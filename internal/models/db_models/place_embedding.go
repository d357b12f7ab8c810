package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PlaceEmbedding struct {
	PlaceID     int64 `gorm:"primaryKey;column:place_id"`
	Name        string
	Description string
	City        string
	Tags        pq.StringArray  `gorm:"type:text[]"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`

	// Similarity is filled by vector queries only.
	Similarity float64 `gorm:"->;-:migration"`
}
