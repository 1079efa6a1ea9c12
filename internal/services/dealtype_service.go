package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk/internal/models"
)

var (
	ErrNoStages          = errors.New("deal type needs at least one stage")
	ErrDuplicateStage    = errors.New("stage codes must be unique within a deal type")
	ErrMultipleWonStages = errors.New("a deal type may have at most one won stage")
)

type DealTypeStore interface {
	Create(dt *models.DealType) (int64, error)
	GetByID(id int64) (*models.DealType, error)
	Update(dt *models.DealType) error
	List() ([]models.DealType, error)
}

type DealTypeService struct {
	repo DealTypeStore
}

func NewDealTypeService(repo DealTypeStore) *DealTypeService {
	return &DealTypeService{repo: repo}
}

func (s *DealTypeService) Create(dt *models.DealType) error {
	if err := validateStages(dt.Stages); err != nil {
		return err
	}
	if dt.CreatedAt.IsZero() {
		dt.CreatedAt = time.Now()
	}
	id, err := s.repo.Create(dt)
	if err != nil {
		return err
	}
	dt.ID = id
	return nil
}

func (s *DealTypeService) Update(dt *models.DealType) error {
	if err := validateStages(dt.Stages); err != nil {
		return err
	}
	return s.repo.Update(dt)
}

func (s *DealTypeService) GetByID(id int64) (*models.DealType, error) {
	return s.repo.GetByID(id)
}

func (s *DealTypeService) List() ([]models.DealType, error) {
	return s.repo.List()
}

// validateStages enforces the deal-type invariants: at least one stage,
// unique codes, at most one won stage. Any number of lost stages is allowed.
func validateStages(stages []models.PipelineStage) error {
	if len(stages) == 0 {
		return ErrNoStages
	}
	seen := make(map[string]bool, len(stages))
	wonCount := 0
	for _, stage := range stages {
		code := strings.TrimSpace(stage.Code)
		if code == "" {
			return fmt.Errorf("stage %q has an empty code", stage.Name)
		}
		if seen[code] {
			return ErrDuplicateStage
		}
		seen[code] = true
		if stage.Type == models.StageWon {
			wonCount++
		}
	}
	if wonCount > 1 {
		return ErrMultipleWonStages
	}
	return nil
}
