package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
)

var (
	ErrDealNotFound       = errors.New("deal not found")
	ErrDealTypeNotFound   = errors.New("deal type not found")
	ErrDealClosed         = errors.New("deal is closed")
	ErrLostReasonRequired = errors.New("lost reason must be at least 10 characters")
)

// DealRepo is what DealService needs from storage.
type DealRepo interface {
	Create(deal *models.Deal) (int64, error)
	GetByID(id int64) (*models.Deal, error)
	Update(deal *models.Deal) error
	UpdateStage(deal *models.Deal) error
	Delete(id int64) error
	ListByPipeline(dealTypeID, assignedTo int64, limit int) ([]models.Deal, error)
	ListPaginated(limit, offset int) ([]models.Deal, error)
}

type DealTypeRepo interface {
	GetByID(id int64) (*models.DealType, error)
}

type ActivityRepo interface {
	Append(a *models.Activity) (int64, error)
	ListByDeal(dealID int64, limit, offset int) ([]models.Activity, error)
	FindByRequestID(dealID int64, requestID string) (*models.Activity, error)
}

// ClosedDealNotifier is told about terminal stage moves; best-effort.
type ClosedDealNotifier interface {
	DealClosed(deal *models.Deal, won bool)
}

type DealService struct {
	deals      DealRepo
	types      DealTypeRepo
	activities ActivityRepo
	notifier   ClosedDealNotifier // may be nil
}

func NewDealService(deals DealRepo, types DealTypeRepo, activities ActivityRepo, notifier ClosedDealNotifier) *DealService {
	return &DealService{deals: deals, types: types, activities: activities, notifier: notifier}
}

// Create stores a new deal on its deal type's first stage with status active.
func (s *DealService) Create(deal *models.Deal, agentID int64) error {
	dt, err := s.types.GetByID(deal.DealTypeID)
	if err != nil {
		return err
	}
	if dt == nil {
		return ErrDealTypeNotFound
	}
	if err := validateDealData(dt.FieldSchema, deal.DealData); err != nil {
		return err
	}

	deal.CurrentStage = dt.FirstStage()
	if deal.Status != models.StatusPending {
		deal.Status = models.StatusActive
	}
	deal.LostReason = nil
	deal.ClosedAt = nil
	deal.ActualCloseDate = nil
	applyCommission(deal)

	now := time.Now()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	id, err := s.deals.Create(deal)
	if err != nil {
		return err
	}
	deal.ID = id

	if _, err := s.activities.Append(&models.Activity{
		DealID:    id,
		AgentID:   agentID,
		Kind:      models.ActivityDealCreated,
		ToStage:   deal.CurrentStage,
		CreatedAt: now,
	}); err != nil {
		log.Printf("[deal][create] activity append failed for deal=%d: %v", id, err)
	}
	return nil
}

func (s *DealService) GetByID(id int64) (*models.Deal, error) {
	return s.deals.GetByID(id)
}

func (s *DealService) ListPaginated(limit, offset int) ([]models.Deal, error) {
	return s.deals.ListPaginated(limit, offset)
}

func (s *DealService) Delete(id int64) error {
	return s.deals.Delete(id)
}

func (s *DealService) Activities(dealID int64, limit, offset int) ([]models.Activity, error) {
	return s.activities.ListByDeal(dealID, limit, offset)
}

// Update applies a partial edit. A provided deal_data map replaces the stored
// one, so a recomputed mortgage triple lands atomically with the other fields.
func (s *DealService) Update(id int64, patch *models.DealPatch, agentID int64) (*models.Deal, error) {
	deal, err := s.deals.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrDealNotFound
	}

	if patch.Title != nil {
		deal.Title = *patch.Title
	}
	if patch.AssignedTo != nil {
		deal.AssignedTo = *patch.AssignedTo
	}
	if patch.DealValue != nil {
		deal.DealValue = *patch.DealValue
	}
	if patch.CommissionRate != nil {
		deal.CommissionRate = *patch.CommissionRate
	}
	if patch.DealData != nil {
		dt, err := s.types.GetByID(deal.DealTypeID)
		if err != nil {
			return nil, err
		}
		if dt == nil {
			return nil, ErrDealTypeNotFound
		}
		if err := validateDealData(dt.FieldSchema, patch.DealData); err != nil {
			return nil, err
		}
		deal.DealData = patch.DealData
	}
	applyCommission(deal)
	deal.UpdatedAt = time.Now()

	if err := s.deals.Update(deal); err != nil {
		return nil, err
	}

	if _, err := s.activities.Append(&models.Activity{
		DealID:    deal.ID,
		AgentID:   agentID,
		Kind:      models.ActivityDealUpdated,
		CreatedAt: deal.UpdatedAt,
	}); err != nil {
		log.Printf("[deal][update] activity append failed for deal=%d: %v", deal.ID, err)
	}
	return deal, nil
}

// ChangeStage moves a deal to another stage of its pipeline and enforces the
// terminal rules: a won stage closes the deal as closed_won, a lost stage
// requires a reason and closes it as closed_lost, and no move leads out of a
// closed deal. A repeated request id returns the current deal unchanged.
func (s *DealService) ChangeStage(id, agentID int64, req models.ChangeStageRequest) (*models.Deal, error) {
	deal, err := s.deals.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrDealNotFound
	}

	if req.RequestID != "" {
		seen, err := s.activities.FindByRequestID(id, req.RequestID)
		if err != nil {
			return nil, err
		}
		if seen != nil {
			return deal, nil
		}
	}

	dt, err := s.types.GetByID(deal.DealTypeID)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, ErrDealTypeNotFound
	}
	stage, ok := pipeline.StageByCode(dt.Stages, req.NewStage)
	if !ok {
		return nil, pipeline.ErrUnknownStage
	}
	if deal.CurrentStage == req.NewStage {
		// self-move, nothing to do
		return deal, nil
	}
	if deal.Closed() {
		return nil, ErrDealClosed
	}

	now := time.Now()
	from := deal.CurrentStage
	deal.CurrentStage = req.NewStage

	class := pipeline.Classify(stage)
	switch class {
	case pipeline.ClassWon:
		deal.Status = models.StatusClosedWon
		deal.LostReason = nil
		deal.ClosedAt = &now
		deal.ActualCloseDate = &now
	case pipeline.ClassLost:
		reason := strings.TrimSpace(req.LostReason)
		if utf8.RuneCountInString(reason) < pipeline.MinLostReasonLen {
			return nil, ErrLostReasonRequired
		}
		deal.Status = models.StatusClosedLost
		deal.LostReason = &reason
		deal.ClosedAt = &now
		deal.ActualCloseDate = &now
	default:
		deal.Status = models.StatusActive
	}
	deal.UpdatedAt = now

	if err := s.deals.UpdateStage(deal); err != nil {
		return nil, err
	}

	if _, err := s.activities.Append(&models.Activity{
		DealID:    deal.ID,
		AgentID:   agentID,
		Kind:      models.ActivityStageChange,
		FromStage: from,
		ToStage:   deal.CurrentStage,
		RequestID: req.RequestID,
		CreatedAt: now,
	}); err != nil {
		log.Printf("[deal][stage] activity append failed for deal=%d: %v", deal.ID, err)
	}

	if class.Terminal() && s.notifier != nil {
		s.notifier.DealClosed(deal, class == pipeline.ClassWon)
	}
	return deal, nil
}

// Pipeline assembles the stage-grouped board for one deal type, every stage
// present even when empty, plus the summary block.
func (s *DealService) Pipeline(dealTypeID, assignedTo int64, limit int) (*models.PipelineBoard, error) {
	dt, err := s.types.GetByID(dealTypeID)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, ErrDealTypeNotFound
	}
	deals, err := s.deals.ListByPipeline(dealTypeID, assignedTo, limit)
	if err != nil {
		return nil, err
	}

	board := &models.PipelineBoard{}
	index := make(map[string]int, len(dt.Stages))
	for _, stage := range dt.Stages {
		index[stage.Code] = len(board.Stages)
		board.Stages = append(board.Stages, models.PipelineStageGroup{
			Code:  stage.Code,
			Name:  stage.Name,
			Deals: []models.Deal{},
		})
	}

	for _, deal := range deals {
		gi, ok := index[deal.CurrentStage]
		if !ok {
			log.Printf("[deal][pipeline] deal=%d sits in unknown stage %q, skipped", deal.ID, deal.CurrentStage)
			continue
		}
		g := &board.Stages[gi]
		g.Deals = append(g.Deals, deal)
		g.Count++
		g.TotalValue += deal.DealValue

		board.Summary.TotalDeals++
		board.Summary.TotalValue += deal.DealValue
		switch deal.Status {
		case models.StatusClosedWon:
			board.Summary.WonDeals++
			board.Summary.WonValue += deal.DealValue
		case models.StatusClosedLost:
			board.Summary.LostDeals++
		default:
			board.Summary.OpenDeals++
		}
	}
	return board, nil
}

func applyCommission(deal *models.Deal) {
	deal.CommissionAmount = deal.DealValue * deal.CommissionRate / 100
	if deal.AgentCommission == 0 {
		deal.AgentCommission = deal.CommissionAmount
	}
}

// validateDealData checks an open deal_data map against the deal type's
// field schema table.
func validateDealData(schema map[string]models.FieldSpec, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	for name, spec := range schema {
		v, ok := data[name]
		if !ok {
			if spec.Required {
				return fmt.Errorf("deal_data: field %q is required", name)
			}
			continue
		}
		switch spec.Type {
		case "number":
			switch v.(type) {
			case float64, int, int64:
			default:
				return fmt.Errorf("deal_data: field %q must be a number", name)
			}
		case "bool":
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("deal_data: field %q must be a boolean", name)
			}
		case "string", "date":
			str, ok := v.(string)
			if !ok {
				return fmt.Errorf("deal_data: field %q must be a string", name)
			}
			if len(spec.Enum) > 0 && !contains(spec.Enum, str) {
				return fmt.Errorf("deal_data: field %q must be one of %v", name, spec.Enum)
			}
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
