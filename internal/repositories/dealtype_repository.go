package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"dealdesk/internal/models"
)

type DealTypeRepository struct {
	db *sql.DB
}

func NewDealTypeRepository(db *sql.DB) *DealTypeRepository {
	return &DealTypeRepository{db: db}
}

func (r *DealTypeRepository) Create(dt *models.DealType) (int64, error) {
	stages, err := json.Marshal(dt.Stages)
	if err != nil {
		return 0, fmt.Errorf("encode stages: %w", err)
	}
	schema, err := json.Marshal(dt.FieldSchema)
	if err != nil {
		return 0, fmt.Errorf("encode field_schema: %w", err)
	}
	query := `
        INSERT INTO deal_types (name, stages, field_schema, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int64
	if err := r.db.QueryRow(query, dt.Name, stages, schema, dt.CreatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("create deal type: %w", err)
	}
	return id, nil
}

func (r *DealTypeRepository) GetByID(id int64) (*models.DealType, error) {
	query := `SELECT id, name, stages, field_schema, created_at FROM deal_types WHERE id = $1`
	dt, err := scanDealType(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deal type by id: %w", err)
	}
	return dt, nil
}

func (r *DealTypeRepository) Update(dt *models.DealType) error {
	stages, err := json.Marshal(dt.Stages)
	if err != nil {
		return fmt.Errorf("encode stages: %w", err)
	}
	schema, err := json.Marshal(dt.FieldSchema)
	if err != nil {
		return fmt.Errorf("encode field_schema: %w", err)
	}
	query := `UPDATE deal_types SET name=$1, stages=$2, field_schema=$3 WHERE id=$4`
	if _, err := r.db.Exec(query, dt.Name, stages, schema, dt.ID); err != nil {
		return fmt.Errorf("update deal type: %w", err)
	}
	return nil
}

func (r *DealTypeRepository) List() ([]models.DealType, error) {
	rows, err := r.db.Query(`SELECT id, name, stages, field_schema, created_at FROM deal_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list deal types: %w", err)
	}
	defer rows.Close()

	var types []models.DealType
	for rows.Next() {
		dt, err := scanDealType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal type: %w", err)
		}
		types = append(types, *dt)
	}
	return types, rows.Err()
}

func scanDealType(row rowScanner) (*models.DealType, error) {
	dt := &models.DealType{}
	var stages, schema []byte
	if err := row.Scan(&dt.ID, &dt.Name, &stages, &schema, &dt.CreatedAt); err != nil {
		return nil, err
	}
	if len(stages) > 0 {
		if err := json.Unmarshal(stages, &dt.Stages); err != nil {
			return nil, fmt.Errorf("decode stages: %w", err)
		}
	}
	if len(schema) > 0 {
		if err := json.Unmarshal(schema, &dt.FieldSchema); err != nil {
			return nil, fmt.Errorf("decode field_schema: %w", err)
		}
	}
	return dt, nil
}
