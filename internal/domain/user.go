package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleUser   Role = "User"
	RoleSeller Role = "Seller"
)

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Picture     *string   `json:"picture,omitempty"`
	AccessToken string    `json:"accessToken,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Overview struct {
	PendingOrders   int `json:"pendingOrders"`
	CompletedOrders int `json:"completedOrders"`
	WaitingOrders   int `json:"waitingOrders"`
}
