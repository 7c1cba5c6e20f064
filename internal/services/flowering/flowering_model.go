package flowering

import (
	"time"

	"github.com/google/uuid"
)

// FloweringType is a catalog entry: main, mitaca, ...
type FloweringType struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

type Flowering struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	PlotID            uuid.UUID  `json:"plot_id" db:"plot_id"`
	FarmID            uuid.UUID  `json:"farm_id" db:"farm_id"`
	FloweringTypeID   uuid.UUID  `json:"flowering_type_id" db:"flowering_type_id"`
	FloweringTypeName string     `json:"flowering_type" db:"flowering_type_name"`
	FloweringDate     time.Time  `json:"flowering_date" db:"flowering_date"`
	HarvestDate       *time.Time `json:"harvest_date" db:"harvest_date"`
	StatusID          uuid.UUID  `json:"status_id" db:"status_id"`
	StatusName        string     `json:"status" db:"status_name"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateFloweringRequest struct {
	PlotID          uuid.UUID `json:"plot_id" validate:"required"`
	FloweringTypeID uuid.UUID `json:"flowering_type_id" validate:"required"`
	FloweringDate   string    `json:"flowering_date" validate:"required,datetime=2006-01-02"`
	HarvestDate     *string   `json:"harvest_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type HarvestRequest struct {
	HarvestDate string `json:"harvest_date" validate:"required,datetime=2006-01-02"`
}

// Recommendation is one window of the post-flowering schedule
type Recommendation struct {
	Task      string    `json:"task"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Programar bool      `json:"programar"`
}

// Recommendations is the schedule computed for one flowering
type Recommendations struct {
	FloweringID   uuid.UUID        `json:"flowering_id"`
	FloweringDate time.Time        `json:"flowering_date"`
	Tasks         []Recommendation `json:"tasks"`
}

// SeedTypes is the flowering type catalog as seeded
var SeedTypes = []string{"Principal", "Mitaca"}
