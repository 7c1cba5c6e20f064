package transaction

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// TransactionCategory belongs to exactly one TransactionType
type TransactionCategory struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	TransactionTypeID uuid.UUID `json:"transaction_type_id" db:"transaction_type_id"`
}

type Transaction struct {
	ID                      uuid.UUID `json:"id" db:"id"`
	PlotID                  uuid.UUID `json:"plot_id" db:"plot_id"`
	FarmID                  uuid.UUID `json:"farm_id" db:"farm_id"`
	TransactionTypeID       uuid.UUID `json:"transaction_type_id" db:"transaction_type_id"`
	TransactionTypeName     string    `json:"transaction_type" db:"transaction_type_name"`
	TransactionCategoryID   uuid.UUID `json:"transaction_category_id" db:"transaction_category_id"`
	TransactionCategoryName string    `json:"transaction_category" db:"transaction_category_name"`
	Description             string    `json:"description" db:"description"`
	Value                   float64   `json:"value" db:"value"`
	TransactionDate         time.Time `json:"transaction_date" db:"transaction_date"`
	StatusID                uuid.UUID `json:"status_id" db:"status_id"`
	StatusName              string    `json:"status" db:"status_name"`
	CreatorID               uuid.UUID `json:"creator_id" db:"creator_id"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

type CreateTransactionRequest struct {
	PlotID                uuid.UUID `json:"plot_id" validate:"required"`
	TransactionTypeID     uuid.UUID `json:"transaction_type_id" validate:"required"`
	TransactionCategoryID uuid.UUID `json:"transaction_category_id" validate:"required"`
	Description           string    `json:"description" validate:"max=255"`
	Value                 float64   `json:"value" validate:"gt=0"`
	TransactionDate       string    `json:"transaction_date" validate:"required,datetime=2006-01-02"`
}

type UpdateTransactionRequest struct {
	TransactionTypeID     *uuid.UUID `json:"transaction_type_id,omitempty"`
	TransactionCategoryID *uuid.UUID `json:"transaction_category_id,omitempty"`
	Description           *string    `json:"description,omitempty" validate:"omitempty,max=255"`
	Value                 *float64   `json:"value,omitempty" validate:"omitempty,gt=0"`
	TransactionDate       *string    `json:"transaction_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SeedCategories is the transaction catalog as seeded, type → categories
var SeedCategories = map[string][]string{
	"Ingreso": {"Venta de café", "Venta de subproductos", "Otros ingresos"},
	"Gasto":   {"Mano de obra", "Insumos", "Fertilizantes", "Transporte", "Mantenimiento", "Otros gastos"},
}
