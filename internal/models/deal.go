package models

import (
	"time"
)

type DealStatus string

const (
	StatusActive     DealStatus = "active"
	StatusPending    DealStatus = "pending"
	StatusClosedWon  DealStatus = "closed_won"
	StatusClosedLost DealStatus = "closed_lost"
	StatusCancelled  DealStatus = "cancelled"
)

type Deal struct {
	ID               int64          `json:"id"`
	DealTypeID       int64          `json:"deal_type_id"`
	AssignedTo       int64          `json:"assigned_to"`
	Title            string         `json:"title"`
	CurrentStage     string         `json:"current_stage"`
	Status           DealStatus     `json:"status"`
	DealValue        float64        `json:"deal_value"`
	CommissionRate   float64        `json:"commission_rate"`
	CommissionAmount float64        `json:"commission_amount"`
	AgentCommission  float64        `json:"agent_commission"`
	LostReason       *string        `json:"lost_reason,omitempty"`
	DealData         map[string]any `json:"deal_data,omitempty"`
	ActualCloseDate  *time.Time     `json:"actual_close_date,omitempty"`
	ClosedAt         *time.Time     `json:"closed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Closed reports whether the deal reached a terminal status.
func (d *Deal) Closed() bool {
	return d.Status == StatusClosedWon || d.Status == StatusClosedLost
}

// ChangeStageRequest is the wire body for POST /deals/:id/stage.
// RequestID lets the server drop a retried gesture instead of applying it twice.
type ChangeStageRequest struct {
	NewStage   string `json:"new_stage" binding:"required"`
	LostReason string `json:"lost_reason,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// DealPatch is a partial update; nil fields are left untouched.
type DealPatch struct {
	Title          *string        `json:"title,omitempty"`
	AssignedTo     *int64         `json:"assigned_to,omitempty"`
	DealValue      *float64       `json:"deal_value,omitempty"`
	CommissionRate *float64       `json:"commission_rate,omitempty"`
	DealData       map[string]any `json:"deal_data,omitempty"`
}
