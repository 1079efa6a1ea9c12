package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/models"
)

type fakeDealTypeStore struct {
	types  map[int64]*models.DealType
	nextID int64
}

func newFakeDealTypeStore() *fakeDealTypeStore {
	return &fakeDealTypeStore{types: make(map[int64]*models.DealType)}
}

func (s *fakeDealTypeStore) Create(dt *models.DealType) (int64, error) {
	s.nextID++
	d := *dt
	d.ID = s.nextID
	s.types[d.ID] = &d
	return d.ID, nil
}

func (s *fakeDealTypeStore) GetByID(id int64) (*models.DealType, error) {
	return s.types[id], nil
}

func (s *fakeDealTypeStore) Update(dt *models.DealType) error {
	s.types[dt.ID] = dt
	return nil
}

func (s *fakeDealTypeStore) List() ([]models.DealType, error) {
	var out []models.DealType
	for _, dt := range s.types {
		out = append(out, *dt)
	}
	return out, nil
}

func TestDealTypeService_CreateValid(t *testing.T) {
	svc := NewDealTypeService(newFakeDealTypeStore())
	dt := &models.DealType{
		Name: "Residential Sale",
		Stages: []models.PipelineStage{
			{Code: "lead", Name: "Lead", Order: 1},
			{Code: "closed", Name: "Closed", Order: 2, Type: models.StageWon},
			{Code: "lost", Name: "Lost", Order: 3, Type: models.StageLost},
		},
	}
	require.NoError(t, svc.Create(dt))
	assert.NotZero(t, dt.ID)
	assert.False(t, dt.CreatedAt.IsZero())
}

func TestDealTypeService_CreateNeedsStages(t *testing.T) {
	svc := NewDealTypeService(newFakeDealTypeStore())
	err := svc.Create(&models.DealType{Name: "Empty"})
	assert.ErrorIs(t, err, ErrNoStages)
}

func TestDealTypeService_DuplicateStageCodes(t *testing.T) {
	svc := NewDealTypeService(newFakeDealTypeStore())
	err := svc.Create(&models.DealType{
		Name: "Broken",
		Stages: []models.PipelineStage{
			{Code: "lead", Order: 1},
			{Code: "lead", Order: 2},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateStage)
}

func TestDealTypeService_AtMostOneWonStage(t *testing.T) {
	svc := NewDealTypeService(newFakeDealTypeStore())
	err := svc.Create(&models.DealType{
		Name: "Broken",
		Stages: []models.PipelineStage{
			{Code: "closed", Order: 1, Type: models.StageWon},
			{Code: "funded", Order: 2, Type: models.StageWon},
		},
	})
	assert.ErrorIs(t, err, ErrMultipleWonStages)
}

func TestDealTypeService_MultipleLostStagesAllowed(t *testing.T) {
	svc := NewDealTypeService(newFakeDealTypeStore())
	err := svc.Create(&models.DealType{
		Name: "Rental",
		Stages: []models.PipelineStage{
			{Code: "lead", Order: 1},
			{Code: "lost_price", Order: 2, Type: models.StageLost},
			{Code: "lost_timing", Order: 3, Type: models.StageLost},
		},
	})
	assert.NoError(t, err)
}

func TestDealTypeService_EmptyStageCode(t *testing.T) {
	svc := NewDealTypeService(newFakeDealTypeStore())
	err := svc.Create(&models.DealType{
		Name:   "Broken",
		Stages: []models.PipelineStage{{Code: "  ", Name: "Blank", Order: 1}},
	})
	assert.ErrorContains(t, err, "empty code")
}
