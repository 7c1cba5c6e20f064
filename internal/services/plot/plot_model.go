package plot

import (
	"time"

	"github.com/google/uuid"
)

type Plot struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FarmID        uuid.UUID `json:"farm_id" db:"farm_id"`
	Name          string    `json:"name" db:"name"`
	CoffeeVariety string    `json:"coffee_variety" db:"coffee_variety"`
	AreaHectares  float64   `json:"area_hectares" db:"area_hectares"`
	StatusID      uuid.UUID `json:"status_id" db:"status_id"`
	StatusName    string    `json:"status" db:"status_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type CreatePlotRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	CoffeeVariety string  `json:"coffee_variety" validate:"required,max=255"`
	AreaHectares  float64 `json:"area_hectares" validate:"gt=0"`
}

type UpdatePlotRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	CoffeeVariety *string  `json:"coffee_variety,omitempty" validate:"omitempty,max=255"`
	AreaHectares  *float64 `json:"area_hectares,omitempty" validate:"omitempty,gt=0"`
}
