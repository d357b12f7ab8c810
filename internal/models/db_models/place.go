package db_models

// Place is a row of the read-mostly place catalog.
type Place struct {
	ID          int64 `gorm:"primaryKey"`
	Name        string
	Description string
	TagsTitle   *string
	City        string `gorm:"index"`
	Latitude    *float64
	Longitude   *float64
	CreatedAt   int64 `gorm:"autoCreateTime"`
	UpdatedAt   int64 `gorm:"autoUpdateTime"`
}
