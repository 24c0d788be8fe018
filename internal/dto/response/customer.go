package response

import (
	"time"

	"puremilk/internal/data/entity"
)

type CustomerResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	MilkType        entity.MilkType `json:"milk_type"`
	DailyQuantity   float64         `json:"daily_quantity"`
	RatePerLiter    float64         `json:"rate_per_liter"`
	MorningDelivery bool            `json:"morning_delivery"`
	EveningDelivery bool            `json:"evening_delivery"`
	IsActive        bool            `json:"is_active"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func CustomerToResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID.String(),
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		MilkType:        c.MilkType,
		DailyQuantity:   c.DailyQuantity,
		RatePerLiter:    c.RatePerLiter,
		MorningDelivery: c.MorningDelivery,
		EveningDelivery: c.EveningDelivery,
		IsActive:        c.IsActive,
		CreatedBy:       c.CreatedBy.String(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func CustomersToResponse(customers []*entity.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerToResponse(c))
	}
	return out
}
