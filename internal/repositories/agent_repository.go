package repositories

import (
	"database/sql"
	"fmt"

	"dealdesk/internal/models"
)

type AgentRepository struct {
	db *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) Create(agent *models.Agent) (int64, error) {
	query := `
        INSERT INTO agents (name, email, password_hash, telegram_chat_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(query,
		agent.Name, agent.Email, agent.PasswordHash, agent.TelegramChatID, agent.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create agent: %w", err)
	}
	return id, nil
}

func (r *AgentRepository) GetByID(id int64) (*models.Agent, error) {
	query := `SELECT id, name, email, password_hash, telegram_chat_id, created_at FROM agents WHERE id = $1`
	return r.scanOne(r.db.QueryRow(query, id))
}

func (r *AgentRepository) GetByEmail(email string) (*models.Agent, error) {
	query := `SELECT id, name, email, password_hash, telegram_chat_id, created_at FROM agents WHERE email = $1`
	return r.scanOne(r.db.QueryRow(query, email))
}

func (r *AgentRepository) List() ([]models.Agent, error) {
	rows, err := r.db.Query(`SELECT id, name, email, password_hash, telegram_chat_id, created_at FROM agents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		var a models.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.TelegramChatID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *AgentRepository) scanOne(row *sql.Row) (*models.Agent, error) {
	var a models.Agent
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.TelegramChatID, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return &a, nil
}
