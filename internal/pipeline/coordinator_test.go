package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/models"
)

// fakeStore records calls and serves canned boards.
type fakeStore struct {
	board      models.PipelineBoard
	listErr    error
	changeErr  error
	updateErr  error
	listCalls  int
	stageCalls []models.ChangeStageRequest
	stageDeals []int64
	patches    []models.DealPatch
}

func (s *fakeStore) ListByPipeline(ctx context.Context, f Filter) (models.PipelineBoard, error) {
	s.listCalls++
	if s.listErr != nil {
		return models.PipelineBoard{}, s.listErr
	}
	return cloneBoard(s.board), nil
}

func (s *fakeStore) ChangeStage(ctx context.Context, dealID int64, req models.ChangeStageRequest) (*models.Deal, error) {
	s.stageCalls = append(s.stageCalls, req)
	s.stageDeals = append(s.stageDeals, dealID)
	if s.changeErr != nil {
		return nil, s.changeErr
	}
	return &models.Deal{ID: dealID, CurrentStage: req.NewStage}, nil
}

func (s *fakeStore) UpdateDeal(ctx context.Context, dealID int64, patch models.DealPatch) (*models.Deal, error) {
	s.patches = append(s.patches, patch)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.Deal{ID: dealID}, nil
}

func testBoard() models.PipelineBoard {
	return models.PipelineBoard{
		Stages: []models.PipelineStageGroup{
			{Code: "lead", Name: "Lead", Count: 2, TotalValue: 550000, Deals: []models.Deal{
				{ID: 1, Title: "12 Oak St", CurrentStage: "lead", DealValue: 300000},
				{ID: 2, Title: "4 Elm Ave", CurrentStage: "lead", DealValue: 250000},
			}},
			{Code: "offer", Name: "Offer", Count: 1, TotalValue: 480000, Deals: []models.Deal{
				{ID: 3, Title: "9 Pine Rd", CurrentStage: "offer", DealValue: 480000},
			}},
			{Code: "closed", Name: "Closed", Deals: []models.Deal{}},
		},
		Summary: models.PipelineSummary{TotalDeals: 3, TotalValue: 1030000, OpenDeals: 3},
	}
}

func newTestCoordinator(store *fakeStore) (*Coordinator, *ReadModel, *[]string) {
	cache := NewReadModel(time.Minute)
	var notices []string
	coord := NewCoordinator(store, cache, func(level, msg string) {
		notices = append(notices, level+": "+msg)
	})
	return coord, cache, &notices
}

func TestCoordinator_BoardReadThrough(t *testing.T) {
	store := &fakeStore{board: testBoard()}
	coord, _, _ := newTestCoordinator(store)
	f := Filter{DealTypeID: 1}
	ctx := context.Background()

	b, err := coord.Board(ctx, f)
	require.NoError(t, err)
	assert.Len(t, b.Stages, 3)
	assert.Equal(t, 1, store.listCalls)

	// Second read within the TTL is served from the cache.
	_, err = coord.Board(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
}

func TestCoordinator_ChangeStagePatchesThenCommits(t *testing.T) {
	store := &fakeStore{board: testBoard()}
	coord, cache, notices := newTestCoordinator(store)
	f := Filter{DealTypeID: 1}
	ctx := context.Background()

	_, err := coord.Board(ctx, f)
	require.NoError(t, err)

	err = coord.ChangeStage(ctx, 1, "offer", "")
	require.NoError(t, err)
	require.Len(t, store.stageCalls, 1)
	assert.Equal(t, "offer", store.stageCalls[0].NewStage)
	assert.NotEmpty(t, store.stageCalls[0].RequestID)
	assert.Empty(t, *notices)

	// A successful commit invalidates the boards so the next read refetches
	// the authoritative state.
	_, ok := cache.Board(f)
	assert.False(t, ok)
	assert.True(t, cache.ViewStale(ViewDashboard))
}

func TestCoordinator_ChangeStageRollsBackOnFailure(t *testing.T) {
	store := &fakeStore{board: testBoard(), changeErr: errors.New("boom")}
	coord, cache, notices := newTestCoordinator(store)
	f := Filter{DealTypeID: 1}
	ctx := context.Background()

	before, err := coord.Board(ctx, f)
	require.NoError(t, err)

	err = coord.ChangeStage(ctx, 1, "offer", "")
	require.Error(t, err)
	require.Len(t, *notices, 1)
	assert.Contains(t, (*notices)[0], "error:")

	after, ok := cache.Board(f)
	require.True(t, ok)
	assert.Equal(t, before, after, "rollback restores the exact pre-patch board")

	// No double membership: deal 1 appears exactly once.
	seen := 0
	for _, g := range after.Stages {
		for _, d := range g.Deals {
			if d.ID == 1 {
				seen++
			}
		}
	}
	assert.Equal(t, 1, seen)
}

func TestCoordinator_ChangeStageFreshRequestIDPerGesture(t *testing.T) {
	store := &fakeStore{board: testBoard()}
	coord, _, _ := newTestCoordinator(store)
	ctx := context.Background()

	require.NoError(t, coord.ChangeStage(ctx, 1, "offer", ""))
	require.NoError(t, coord.ChangeStage(ctx, 2, "offer", ""))
	require.Len(t, store.stageCalls, 2)
	assert.NotEqual(t, store.stageCalls[0].RequestID, store.stageCalls[1].RequestID)
}

func TestCoordinator_SaveDeal(t *testing.T) {
	store := &fakeStore{board: testBoard()}
	coord, cache, notices := newTestCoordinator(store)
	f := Filter{DealTypeID: 1}
	ctx := context.Background()

	_, err := coord.Board(ctx, f)
	require.NoError(t, err)

	value := 320000.0
	_, err = coord.SaveDeal(ctx, 1, models.DealPatch{DealValue: &value})
	require.NoError(t, err)
	require.Len(t, store.patches, 1)

	_, ok := cache.Board(f)
	assert.False(t, ok, "edits invalidate the cached boards")
	assert.Empty(t, *notices)
}

func TestCoordinator_SaveDealFailureNotifies(t *testing.T) {
	store := &fakeStore{updateErr: errors.New("boom")}
	coord, _, notices := newTestCoordinator(store)

	title := "renamed"
	_, err := coord.SaveDeal(context.Background(), 1, models.DealPatch{Title: &title})
	require.Error(t, err)
	assert.Len(t, *notices, 1)
}
