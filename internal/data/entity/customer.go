package entity

import "github.com/google/uuid"

type MilkType string

const (
	MilkCow     MilkType = "cow"
	MilkBuffalo MilkType = "buffalo"
	MilkGoat    MilkType = "goat"
	MilkMixed   MilkType = "mixed"
)

// Customer is a delivery subscriber profile, owned by the admin who created it.
type Customer struct {
	Base
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	Phone           string    `db:"phone"`
	Address         string    `db:"address"`
	MilkType        MilkType  `db:"milk_type"`
	DailyQuantity   float64   `db:"daily_quantity"`
	RatePerLiter    float64   `db:"rate_per_liter"`
	MorningDelivery bool      `db:"morning_delivery"`
	EveningDelivery bool      `db:"evening_delivery"`
	IsActive        bool      `db:"is_active"`
	CreatedBy       uuid.UUID `db:"created_by"`
}
