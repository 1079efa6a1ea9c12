package repositories

import (
	"database/sql"
	"fmt"

	"dealdesk/internal/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(a *models.Activity) (int64, error) {
	query := `
        INSERT INTO activities (deal_id, agent_id, kind, from_stage, to_stage, note, request_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(query,
		a.DealID, a.AgentID, a.Kind, a.FromStage, a.ToStage, a.Note, a.RequestID, a.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append activity: %w", err)
	}
	return id, nil
}

func (r *ActivityRepository) ListByDeal(dealID int64, limit, offset int) ([]models.Activity, error) {
	query := `
        SELECT id, deal_id, agent_id, kind, from_stage, to_stage, note, request_id, created_at
        FROM activities
        WHERE deal_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(query, dealID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.DealID, &a.AgentID, &a.Kind, &a.FromStage, &a.ToStage, &a.Note, &a.RequestID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindByRequestID backs change-stage idempotency: a request id seen before
// means the gesture already landed.
func (r *ActivityRepository) FindByRequestID(dealID int64, requestID string) (*models.Activity, error) {
	query := `
        SELECT id, deal_id, agent_id, kind, from_stage, to_stage, note, request_id, created_at
        FROM activities
        WHERE deal_id = $1 AND request_id = $2
        LIMIT 1
    `
	var a models.Activity
	err := r.db.QueryRow(query, dealID, requestID).Scan(
		&a.ID, &a.DealID, &a.AgentID, &a.Kind, &a.FromStage, &a.ToStage, &a.Note, &a.RequestID, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find activity by request id: %w", err)
	}
	return &a, nil
}
