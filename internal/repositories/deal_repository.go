package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dealdesk/internal/models"
)

type DealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{db: db}
}

const dealColumns = `id, deal_type_id, assigned_to, title, current_stage, status,
	deal_value, commission_rate, commission_amount, agent_commission,
	lost_reason, deal_data, actual_close_date, closed_at, created_at, updated_at`

func (r *DealRepository) Create(deal *models.Deal) (int64, error) {
	data, err := marshalDealData(deal.DealData)
	if err != nil {
		return 0, err
	}
	query := `
        INSERT INTO deals (deal_type_id, assigned_to, title, current_stage, status,
                           deal_value, commission_rate, commission_amount, agent_commission,
                           deal_data, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `
	var id int64
	err = r.db.QueryRow(
		query,
		deal.DealTypeID,
		deal.AssignedTo,
		deal.Title,
		deal.CurrentStage,
		deal.Status,
		deal.DealValue,
		deal.CommissionRate,
		deal.CommissionAmount,
		deal.AgentCommission,
		data,
		deal.CreatedAt,
		deal.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create deal: %w", err)
	}
	return id, nil
}

func (r *DealRepository) GetByID(id int64) (*models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`
	deal, err := scanDeal(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deal by id: %w", err)
	}
	return deal, nil
}

func (r *DealRepository) Update(deal *models.Deal) error {
	data, err := marshalDealData(deal.DealData)
	if err != nil {
		return err
	}
	query := `
        UPDATE deals
        SET title=$1, assigned_to=$2, deal_value=$3, commission_rate=$4,
            commission_amount=$5, agent_commission=$6, deal_data=$7, updated_at=$8
        WHERE id=$9
    `
	_, err = r.db.Exec(query,
		deal.Title,
		deal.AssignedTo,
		deal.DealValue,
		deal.CommissionRate,
		deal.CommissionAmount,
		deal.AgentCommission,
		data,
		deal.UpdatedAt,
		deal.ID,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

// UpdateStage writes the stage move plus everything a terminal move sets.
func (r *DealRepository) UpdateStage(deal *models.Deal) error {
	query := `
        UPDATE deals
        SET current_stage=$1, status=$2, lost_reason=$3, actual_close_date=$4,
            closed_at=$5, updated_at=$6
        WHERE id=$7
    `
	_, err := r.db.Exec(query,
		deal.CurrentStage,
		deal.Status,
		nullString(deal.LostReason),
		nullTime(deal.ActualCloseDate),
		nullTime(deal.ClosedAt),
		deal.UpdatedAt,
		deal.ID,
	)
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	return nil
}

func (r *DealRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM deals WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deal with id=%d not found", id)
	}
	return nil
}

// ListByPipeline returns the deals feeding one pipeline board, oldest first
// so stage columns render in entry order.
func (r *DealRepository) ListByPipeline(dealTypeID, assignedTo int64, limit int) ([]models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE deal_type_id = $1`
	args := []interface{}{dealTypeID}
	i := 2

	if assignedTo != 0 {
		query += fmt.Sprintf(" AND assigned_to = $%d", i)
		args = append(args, assignedTo)
		i++
	}
	query += " ORDER BY created_at ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, limit)
	}

	return r.queryDeals(query, args...)
}

func (r *DealRepository) ListByStatus(status models.DealStatus, limit, offset int) ([]models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals
	          WHERE status = $1
	          ORDER BY closed_at DESC NULLS LAST, created_at DESC
	          LIMIT $2 OFFSET $3`
	return r.queryDeals(query, status, limit, offset)
}

func (r *DealRepository) ListPaginated(limit, offset int) ([]models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryDeals(query, limit, offset)
}

// StatusCounts aggregates deal count and value per status for the dashboard.
func (r *DealRepository) StatusCounts() (map[models.DealStatus]models.StatusAgg, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*), COALESCE(SUM(deal_value), 0) FROM deals GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	out := make(map[models.DealStatus]models.StatusAgg)
	for rows.Next() {
		var status models.DealStatus
		var agg models.StatusAgg
		if err := rows.Scan(&status, &agg.Count, &agg.Value); err != nil {
			return nil, fmt.Errorf("status counts: %w", err)
		}
		out[status] = agg
	}
	return out, rows.Err()
}

func (r *DealRepository) queryDeals(query string, args ...interface{}) ([]models.Deal, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, *deal)
	}
	return deals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	deal := &models.Deal{}
	var (
		lostReason      sql.NullString
		dealData        []byte
		actualCloseDate sql.NullTime
		closedAt        sql.NullTime
	)
	err := row.Scan(
		&deal.ID,
		&deal.DealTypeID,
		&deal.AssignedTo,
		&deal.Title,
		&deal.CurrentStage,
		&deal.Status,
		&deal.DealValue,
		&deal.CommissionRate,
		&deal.CommissionAmount,
		&deal.AgentCommission,
		&lostReason,
		&dealData,
		&actualCloseDate,
		&closedAt,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lostReason.Valid {
		deal.LostReason = &lostReason.String
	}
	if actualCloseDate.Valid {
		t := actualCloseDate.Time
		deal.ActualCloseDate = &t
	}
	if closedAt.Valid {
		t := closedAt.Time
		deal.ClosedAt = &t
	}
	if len(dealData) > 0 {
		if err := json.Unmarshal(dealData, &deal.DealData); err != nil {
			return nil, fmt.Errorf("decode deal_data: %w", err)
		}
	}
	return deal, nil
}

func marshalDealData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode deal_data: %w", err)
	}
	return b, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
