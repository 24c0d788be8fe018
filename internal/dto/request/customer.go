package request

type CreateCustomerRequest struct {
	Name            string  `json:"name" validate:"required,min=2,max=100"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	Phone           string  `json:"phone" validate:"required,phone"`
	Address         string  `json:"address" validate:"required,min=10,max=500"`
	MilkType        string  `json:"milk_type" validate:"required,oneof=cow buffalo goat mixed"`
	DailyQuantity   float64 `json:"daily_quantity" validate:"gt=0,lte=50"`
	RatePerLiter    float64 `json:"rate_per_liter" validate:"gt=0,lte=1000"`
	MorningDelivery *bool   `json:"morning_delivery"`
	EveningDelivery *bool   `json:"evening_delivery"`
	Password        string  `json:"password" validate:"required,min=8,max=128,password"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UpdateCustomerRequest is a partial update; nil fields are left unchanged.
// Email is not updatable because the login account is paired by email.
type UpdateCustomerRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Phone           *string  `json:"phone" validate:"omitempty,phone"`
	Address         *string  `json:"address" validate:"omitempty,min=10,max=500"`
	MilkType        *string  `json:"milk_type" validate:"omitempty,oneof=cow buffalo goat mixed"`
	DailyQuantity   *float64 `json:"daily_quantity" validate:"omitempty,gt=0,lte=50"`
	RatePerLiter    *float64 `json:"rate_per_liter" validate:"omitempty,gt=0,lte=1000"`
	MorningDelivery *bool    `json:"morning_delivery"`
	EveningDelivery *bool    `json:"evening_delivery"`
	IsActive        *bool    `json:"is_active"`
}

type ListCustomersRequest struct {
	PaginatedRequest
	Search string `json:"search" validate:"max=100"`
}
