package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
)

type fakeDealRepo struct {
	deals  map[int64]*models.Deal
	nextID int64
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: make(map[int64]*models.Deal), nextID: 1}
}

func (r *fakeDealRepo) Create(deal *models.Deal) (int64, error) {
	id := r.nextID
	r.nextID++
	d := *deal
	d.ID = id
	r.deals[id] = &d
	return id, nil
}

func (r *fakeDealRepo) GetByID(id int64) (*models.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, nil
	}
	copy := *d
	return &copy, nil
}

func (r *fakeDealRepo) Update(deal *models.Deal) error {
	d := *deal
	r.deals[deal.ID] = &d
	return nil
}

func (r *fakeDealRepo) UpdateStage(deal *models.Deal) error {
	return r.Update(deal)
}

func (r *fakeDealRepo) Delete(id int64) error {
	delete(r.deals, id)
	return nil
}

func (r *fakeDealRepo) ListByPipeline(dealTypeID, assignedTo int64, limit int) ([]models.Deal, error) {
	var out []models.Deal
	for _, d := range r.deals {
		if d.DealTypeID != dealTypeID {
			continue
		}
		if assignedTo != 0 && d.AssignedTo != assignedTo {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDealRepo) ListPaginated(limit, offset int) ([]models.Deal, error) {
	var out []models.Deal
	for _, d := range r.deals {
		out = append(out, *d)
	}
	return out, nil
}

type fakeDealTypeRepo struct {
	types map[int64]*models.DealType
}

func (r *fakeDealTypeRepo) GetByID(id int64) (*models.DealType, error) {
	dt, ok := r.types[id]
	if !ok {
		return nil, nil
	}
	return dt, nil
}

type fakeActivityRepo struct {
	entries []models.Activity
	nextID  int64
}

func (r *fakeActivityRepo) Append(a *models.Activity) (int64, error) {
	r.nextID++
	a.ID = r.nextID
	r.entries = append(r.entries, *a)
	return a.ID, nil
}

func (r *fakeActivityRepo) ListByDeal(dealID int64, limit, offset int) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range r.entries {
		if a.DealID == dealID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) FindByRequestID(dealID int64, requestID string) (*models.Activity, error) {
	for _, a := range r.entries {
		if a.DealID == dealID && a.RequestID == requestID {
			copy := a
			return &copy, nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	closed []struct {
		dealID int64
		won    bool
	}
}

func (n *fakeNotifier) DealClosed(deal *models.Deal, won bool) {
	n.closed = append(n.closed, struct {
		dealID int64
		won    bool
	}{deal.ID, won})
}

func residentialDealType() *models.DealType {
	return &models.DealType{
		ID:   1,
		Name: "Residential Sale",
		Stages: []models.PipelineStage{
			{Code: "lead", Name: "Lead", Order: 1, Type: models.StageNormal},
			{Code: "showing", Name: "Showing", Order: 2, Type: models.StageNormal},
			{Code: "offer", Name: "Offer", Order: 3, Type: models.StageNormal},
			{Code: "closed", Name: "Closed", Order: 4, Type: models.StageWon},
			{Code: "lost", Name: "Lost", Order: 5, Type: models.StageLost},
		},
	}
}

func newTestDealService(t *testing.T) (*DealService, *fakeDealRepo, *fakeActivityRepo, *fakeNotifier) {
	t.Helper()
	deals := newFakeDealRepo()
	types := &fakeDealTypeRepo{types: map[int64]*models.DealType{1: residentialDealType()}}
	activities := &fakeActivityRepo{}
	notifier := &fakeNotifier{}
	return NewDealService(deals, types, activities, notifier), deals, activities, notifier
}

func createTestDeal(t *testing.T, svc *DealService) *models.Deal {
	t.Helper()
	deal := &models.Deal{
		DealTypeID:     1,
		AssignedTo:     5,
		Title:          "12 Oak St",
		DealValue:      300000,
		CommissionRate: 3,
	}
	require.NoError(t, svc.Create(deal, 5))
	return deal
}

func TestDealService_CreateStartsOnFirstStage(t *testing.T) {
	svc, _, activities, _ := newTestDealService(t)
	deal := createTestDeal(t, svc)

	assert.Equal(t, "lead", deal.CurrentStage)
	assert.Equal(t, models.StatusActive, deal.Status)
	assert.Equal(t, 9000.0, deal.CommissionAmount)
	require.Len(t, activities.entries, 1)
	assert.Equal(t, models.ActivityDealCreated, activities.entries[0].Kind)
}

func TestDealService_CreateUnknownDealType(t *testing.T) {
	svc, _, _, _ := newTestDealService(t)
	err := svc.Create(&models.Deal{DealTypeID: 42, Title: "x"}, 5)
	assert.ErrorIs(t, err, ErrDealTypeNotFound)
}

func TestDealService_ChangeStageNormal(t *testing.T) {
	svc, _, activities, notifier := newTestDealService(t)
	deal := createTestDeal(t, svc)

	got, err := svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "showing"})
	require.NoError(t, err)
	assert.Equal(t, "showing", got.CurrentStage)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Nil(t, got.ClosedAt)
	assert.Empty(t, notifier.closed)

	last := activities.entries[len(activities.entries)-1]
	assert.Equal(t, models.ActivityStageChange, last.Kind)
	assert.Equal(t, "lead", last.FromStage)
	assert.Equal(t, "showing", last.ToStage)
}

func TestDealService_ChangeStageSelfMoveIsNoop(t *testing.T) {
	svc, _, activities, _ := newTestDealService(t)
	deal := createTestDeal(t, svc)
	before := len(activities.entries)

	got, err := svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "lead"})
	require.NoError(t, err)
	assert.Equal(t, "lead", got.CurrentStage)
	assert.Len(t, activities.entries, before, "no activity for a self-move")
}

func TestDealService_ChangeStageWonClosesDeal(t *testing.T) {
	svc, _, _, notifier := newTestDealService(t)
	deal := createTestDeal(t, svc)

	got, err := svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "closed"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosedWon, got.Status)
	require.NotNil(t, got.ClosedAt)
	require.NotNil(t, got.ActualCloseDate)
	assert.Nil(t, got.LostReason)

	require.Len(t, notifier.closed, 1)
	assert.True(t, notifier.closed[0].won)
}

func TestDealService_ChangeStageLostRequiresReason(t *testing.T) {
	svc, deals, _, notifier := newTestDealService(t)
	deal := createTestDeal(t, svc)

	_, err := svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "lost", LostReason: " too cheap "})
	assert.ErrorIs(t, err, ErrLostReasonRequired)
	assert.Empty(t, notifier.closed)

	stored, _ := deals.GetByID(deal.ID)
	assert.Equal(t, "lead", stored.CurrentStage, "rejected move leaves the deal untouched")

	got, err := svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "lost", LostReason: "client chose another agent"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosedLost, got.Status)
	require.NotNil(t, got.LostReason)
	assert.Equal(t, "client chose another agent", *got.LostReason)

	require.Len(t, notifier.closed, 1)
	assert.False(t, notifier.closed[0].won)
}

func TestDealService_ChangeStageNoMoveOutOfClosedDeal(t *testing.T) {
	svc, _, _, _ := newTestDealService(t)
	deal := createTestDeal(t, svc)

	_, err := svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "closed"})
	require.NoError(t, err)

	_, err = svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "lead"})
	assert.ErrorIs(t, err, ErrDealClosed)
}

func TestDealService_ChangeStageUnknownStage(t *testing.T) {
	svc, _, _, _ := newTestDealService(t)
	deal := createTestDeal(t, svc)

	_, err := svc.ChangeStage(deal.ID, 5, models.ChangeStageRequest{NewStage: "archived"})
	assert.ErrorIs(t, err, pipeline.ErrUnknownStage)
}

func TestDealService_ChangeStageDedupesRequestID(t *testing.T) {
	svc, _, activities, _ := newTestDealService(t)
	deal := createTestDeal(t, svc)

	req := models.ChangeStageRequest{NewStage: "showing", RequestID: "req-abc"}
	_, err := svc.ChangeStage(deal.ID, 5, req)
	require.NoError(t, err)
	moves := len(activities.entries)

	// The retried gesture is absorbed, not applied again.
	got, err := svc.ChangeStage(deal.ID, 5, req)
	require.NoError(t, err)
	assert.Equal(t, "showing", got.CurrentStage)
	assert.Len(t, activities.entries, moves)
}

func TestDealService_UpdateValidatesDealData(t *testing.T) {
	deals := newFakeDealRepo()
	dt := residentialDealType()
	dt.FieldSchema = map[string]models.FieldSpec{
		"purchase_price": {Type: "number"},
		"property_kind":  {Type: "string", Enum: []string{"house", "condo"}},
	}
	types := &fakeDealTypeRepo{types: map[int64]*models.DealType{1: dt}}
	svc := NewDealService(deals, types, &fakeActivityRepo{}, nil)

	deal := &models.Deal{DealTypeID: 1, Title: "12 Oak St", DealValue: 300000}
	require.NoError(t, svc.Create(deal, 5))

	_, err := svc.Update(deal.ID, &models.DealPatch{
		DealData: map[string]any{"purchase_price": "lots"},
	}, 5)
	assert.ErrorContains(t, err, "purchase_price")

	_, err = svc.Update(deal.ID, &models.DealPatch{
		DealData: map[string]any{"property_kind": "castle"},
	}, 5)
	assert.ErrorContains(t, err, "property_kind")

	got, err := svc.Update(deal.ID, &models.DealPatch{
		DealData: map[string]any{"purchase_price": 300000.0, "property_kind": "house"},
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, "house", got.DealData["property_kind"])
}

func TestDealService_UpdateRecomputesCommission(t *testing.T) {
	svc, _, _, _ := newTestDealService(t)
	deal := createTestDeal(t, svc)

	value := 400000.0
	got, err := svc.Update(deal.ID, &models.DealPatch{DealValue: &value}, 5)
	require.NoError(t, err)
	assert.Equal(t, 12000.0, got.CommissionAmount)
}

func TestDealService_PipelineBoard(t *testing.T) {
	svc, deals, _, _ := newTestDealService(t)

	createTestDeal(t, svc)
	second := &models.Deal{DealTypeID: 1, AssignedTo: 6, Title: "4 Elm Ave", DealValue: 250000}
	require.NoError(t, svc.Create(second, 6))
	_, err := svc.ChangeStage(second.ID, 6, models.ChangeStageRequest{NewStage: "closed"})
	require.NoError(t, err)

	// A deal sitting in a stage the deal type no longer knows is skipped.
	deals.deals[99] = &models.Deal{ID: 99, DealTypeID: 1, CurrentStage: "ghost", DealValue: 1}

	board, err := svc.Pipeline(1, 0, 0)
	require.NoError(t, err)
	require.Len(t, board.Stages, 5, "every stage present, empty ones included")
	assert.Equal(t, "lead", board.Stages[0].Code)
	assert.Equal(t, 1, board.Stages[0].Count)
	assert.Equal(t, 1, board.Stages[3].Count)
	assert.Equal(t, 250000.0, board.Stages[3].TotalValue)
	assert.Empty(t, board.Stages[1].Deals)

	assert.Equal(t, 2, board.Summary.TotalDeals)
	assert.Equal(t, 550000.0, board.Summary.TotalValue)
	assert.Equal(t, 1, board.Summary.OpenDeals)
	assert.Equal(t, 1, board.Summary.WonDeals)
	assert.Equal(t, 250000.0, board.Summary.WonValue)
	assert.Zero(t, board.Summary.LostDeals)
}

func TestDealService_PipelineFiltersByAgent(t *testing.T) {
	svc, _, _, _ := newTestDealService(t)
	createTestDeal(t, svc)
	other := &models.Deal{DealTypeID: 1, AssignedTo: 6, Title: "4 Elm Ave", DealValue: 250000}
	require.NoError(t, svc.Create(other, 6))

	board, err := svc.Pipeline(1, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, board.Summary.TotalDeals)
}
