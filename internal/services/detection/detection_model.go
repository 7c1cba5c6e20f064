package detection

import (
	"time"

	"github.com/google/uuid"
)

// Detection kinds, one classifier model each
const (
	KindDisease    = "disease"
	KindDeficiency = "deficiency"
	KindMaturity   = "maturity"
)

var kinds = map[string]bool{
	KindDisease:    true,
	KindDeficiency: true,
	KindMaturity:   true,
}

type Detection struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PlotID     uuid.UUID `json:"plot_id" db:"plot_id"`
	FarmID     uuid.UUID `json:"farm_id" db:"farm_id"`
	Kind       string    `json:"kind" db:"kind"`
	ImageKey   string    `json:"image_key" db:"image_key"`
	Label      string    `json:"label" db:"label"`
	Confidence float64   `json:"confidence" db:"confidence"`
	StatusID   uuid.UUID `json:"status_id" db:"status_id"`
	StatusName string    `json:"status" db:"status_name"`
	CreatorID  uuid.UUID `json:"creator_id" db:"creator_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Prediction is the classifier's answer for one image
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Image is an uploaded photo
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}
