// FILE: internal/dto/admin_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminStatsResponse struct {
	TotalUsers            int64 `json:"total_users"`
	TotalTransactions     int64 `json:"total_transactions"`
	CompletedTransactions int64 `json:"completed_transactions"`
	PendingTransactions   int64 `json:"pending_transactions"`
	TotalRevenue          int64 `json:"total_revenue"`
	TotalImages           int64 `json:"total_images"`
}

type AdminUserResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}
