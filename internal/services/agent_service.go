package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dealdesk/internal/models"
)

var ErrEmailTaken = errors.New("email is already registered")

type AgentRepo interface {
	Create(agent *models.Agent) (int64, error)
	GetByID(id int64) (*models.Agent, error)
	GetByEmail(email string) (*models.Agent, error)
	List() ([]models.Agent, error)
}

type AgentService struct {
	repo AgentRepo
}

func NewAgentService(repo AgentRepo) *AgentService {
	return &AgentService{repo: repo}
}

func (s *AgentService) Register(name, email, password string) (*models.Agent, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	agent := &models.Agent{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	id, err := s.repo.Create(agent)
	if err != nil {
		return nil, err
	}
	agent.ID = id
	return agent, nil
}

func (s *AgentService) GetByEmail(email string) (*models.Agent, error) {
	return s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
}

func (s *AgentService) GetByID(id int64) (*models.Agent, error) {
	return s.repo.GetByID(id)
}

func (s *AgentService) List() ([]models.Agent, error) {
	return s.repo.List()
}
