package response

import (
	"time"

	"puremilk/internal/data/entity"
)

type UserView struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Role  entity.UserRole `json:"role"`
	Name  string          `json:"name"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

type ProfileResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	IsActive  bool            `json:"is_active"`
	LastLogin *time.Time      `json:"last_login"`
	CreatedAt time.Time       `json:"created_at"`
}

type AdminExistsResponse struct {
	AdminExists bool `json:"admin_exists"`
}

type EmailStatusResponse struct {
	Email            string  `json:"email"`
	UserID           *string `json:"user_id"`
	UserActive       bool    `json:"user_active"`
	UserInactive     bool    `json:"user_inactive"`
	CustomerID       *string `json:"customer_id"`
	CustomerActive   bool    `json:"customer_active"`
	CustomerInactive bool    `json:"customer_inactive"`
}

// Helper converters
func UserToView(user *entity.User) UserView {
	return UserView{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  user.Role,
		Name:  user.Name,
	}
}

func UserToProfile(user *entity.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		Name:      user.Name,
		Phone:     user.Phone,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

func EmailStatusToResponse(status *entity.EmailStatus) EmailStatusResponse {
	return EmailStatusResponse{
		Email:            status.Email,
		UserID:           status.UserID,
		UserActive:       status.UserActive,
		UserInactive:     status.UserInactive,
		CustomerID:       status.CustomerID,
		CustomerActive:   status.CustomerActive,
		CustomerInactive: status.CustomerInactive,
	}
}
