package pipeline

import (
	"sync"
	"time"

	"dealdesk/internal/models"
)

// Filter is the cache key for one pipeline board query.
type Filter struct {
	DealTypeID int64
	AssignedTo int64
	Limit      int
}

// Dependent aggregate views marked stale after a successful stage commit, so
// their next render refetches from the store.
const (
	ViewDashboard = "dashboard"
	ViewWonDeals  = "won_deals"
	ViewLostDeals = "lost_deals"
)

type boardEntry struct {
	board     models.PipelineBoard
	fetchedAt time.Time
	stale     bool
	version   uint64
}

// ReadModel is the client-side cache of pipeline boards. It is a plain
// injectable handle: every consumer receives it from the wiring code, writes
// go through the mutation coordinator, and all operations are atomic under
// one lock so no reader observes a half-applied patch.
type ReadModel struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	boards     map[Filter]*boardEntry
	staleViews map[string]bool
}

func NewReadModel(ttl time.Duration) *ReadModel {
	return &ReadModel{
		ttl:        ttl,
		now:        time.Now,
		boards:     make(map[Filter]*boardEntry),
		staleViews: make(map[string]bool),
	}
}

// SetClock overrides the time source. Tests only.
func (m *ReadModel) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Board returns a copy of the cached board for f. ok is false on a miss,
// after the TTL has elapsed, or once the entry was invalidated.
func (m *ReadModel) Board(f Filter) (models.PipelineBoard, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.boards[f]
	if !ok || e.stale || m.now().Sub(e.fetchedAt) > m.ttl {
		return models.PipelineBoard{}, false
	}
	return cloneBoard(e.board), true
}

// Version returns the entry's patch version. A refetch started at version v
// may only land through Store(f, board, v); any optimistic patch applied in
// between bumps the version and supersedes the in-flight response.
func (m *ReadModel) Version(f Filter) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.boards[f]; ok {
		return e.version
	}
	return 0
}

// Store installs a freshly fetched board. It reports false, and stores
// nothing, when the entry was patched since version was read.
func (m *ReadModel) Store(f Filter, b models.PipelineBoard, version uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.boards[f]
	if ok && e.version != version {
		return false
	}
	if !ok {
		if version != 0 {
			return false
		}
		e = &boardEntry{}
		m.boards[f] = e
	}
	e.board = cloneBoard(b)
	e.fetchedAt = m.now()
	e.stale = false
	return true
}

// MoveDeal applies the optimistic stage patch to every cached board that
// holds the deal: remove it from its current group, append it to the target
// group with current_stage rewritten, and adjust both groups' count and
// total_value. Boards of other deal types are untouched. The returned flag
// reports whether any board was patched.
func (m *ReadModel) MoveDeal(dealID int64, target string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	patched := false
	for _, e := range m.boards {
		if m.moveWithin(&e.board, dealID, target) {
			e.version++
			patched = true
		}
	}
	return patched
}

func (m *ReadModel) moveWithin(b *models.PipelineBoard, dealID int64, target string) bool {
	fromIdx, dealIdx := -1, -1
	for gi := range b.Stages {
		for di := range b.Stages[gi].Deals {
			if b.Stages[gi].Deals[di].ID == dealID {
				fromIdx, dealIdx = gi, di
				break
			}
		}
	}
	if fromIdx < 0 {
		return false
	}
	toIdx := -1
	for gi := range b.Stages {
		if b.Stages[gi].Code == target {
			toIdx = gi
			break
		}
	}
	if toIdx < 0 || toIdx == fromIdx {
		return false
	}

	from, to := &b.Stages[fromIdx], &b.Stages[toIdx]
	deal := cloneDeal(from.Deals[dealIdx])
	deal.CurrentStage = target

	from.Deals = append(from.Deals[:dealIdx], from.Deals[dealIdx+1:]...)
	from.Count--
	from.TotalValue -= deal.DealValue
	to.Deals = append(to.Deals, deal)
	to.Count++
	to.TotalValue += deal.DealValue
	return true
}

// Snapshot captures the full cache state for a later Restore.
type Snapshot struct {
	boards     map[Filter]*boardEntry
	staleViews map[string]bool
}

func (m *ReadModel) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		boards:     make(map[Filter]*boardEntry, len(m.boards)),
		staleViews: make(map[string]bool, len(m.staleViews)),
	}
	for f, e := range m.boards {
		s.boards[f] = &boardEntry{
			board:     cloneBoard(e.board),
			fetchedAt: e.fetchedAt,
			stale:     e.stale,
			version:   e.version,
		}
	}
	for v, stale := range m.staleViews {
		s.staleViews[v] = stale
	}
	return s
}

// Restore replaces the cache with a snapshot taken earlier. Versions still
// advance so that responses in flight across the rollback stay superseded.
func (m *ReadModel) Restore(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	boards := make(map[Filter]*boardEntry, len(s.boards))
	for f, e := range s.boards {
		version := e.version
		if cur, ok := m.boards[f]; ok && cur.version > version {
			version = cur.version
		}
		boards[f] = &boardEntry{
			board:     cloneBoard(e.board),
			fetchedAt: e.fetchedAt,
			stale:     e.stale,
			version:   version + 1,
		}
	}
	m.boards = boards
	views := make(map[string]bool, len(s.staleViews))
	for v, stale := range s.staleViews {
		views[v] = stale
	}
	m.staleViews = views
}

// InvalidateBoards marks every cached board stale; the next Board call
// misses and the caller refetches from the authoritative store.
func (m *ReadModel) InvalidateBoards() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.boards {
		e.stale = true
		e.version++
	}
}

// InvalidateDependents marks the aggregate views that derive from deal
// stages (dashboard, won list, lost list) stale.
func (m *ReadModel) InvalidateDependents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staleViews[ViewDashboard] = true
	m.staleViews[ViewWonDeals] = true
	m.staleViews[ViewLostDeals] = true
}

func (m *ReadModel) ViewStale(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.staleViews[name]
}

func (m *ReadModel) MarkViewFresh(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.staleViews, name)
}

func cloneBoard(b models.PipelineBoard) models.PipelineBoard {
	out := models.PipelineBoard{Summary: b.Summary}
	out.Stages = make([]models.PipelineStageGroup, len(b.Stages))
	for i, g := range b.Stages {
		ng := g
		ng.Deals = make([]models.Deal, len(g.Deals))
		for j, d := range g.Deals {
			ng.Deals[j] = cloneDeal(d)
		}
		out.Stages[i] = ng
	}
	return out
}

func cloneDeal(d models.Deal) models.Deal {
	if d.LostReason != nil {
		r := *d.LostReason
		d.LostReason = &r
	}
	if d.ActualCloseDate != nil {
		t := *d.ActualCloseDate
		d.ActualCloseDate = &t
	}
	if d.ClosedAt != nil {
		t := *d.ClosedAt
		d.ClosedAt = &t
	}
	if d.DealData != nil {
		data := make(map[string]any, len(d.DealData))
		for k, v := range d.DealData {
			data[k] = v
		}
		d.DealData = data
	}
	return d
}
