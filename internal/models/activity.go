package models

import (
	"time"
)

const (
	ActivityDealCreated = "deal_created"
	ActivityStageChange = "stage_change"
	ActivityDealUpdated = "deal_updated"
)

// Activity is one append-only history record on a deal. Stage changes carry
// the old and new stage codes; other kinds leave them empty.
type Activity struct {
	ID        int64     `json:"id"`
	DealID    int64     `json:"deal_id"`
	AgentID   int64     `json:"agent_id"`
	Kind      string    `json:"kind"`
	FromStage string    `json:"from_stage,omitempty"`
	ToStage   string    `json:"to_stage,omitempty"`
	Note      string    `json:"note,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
