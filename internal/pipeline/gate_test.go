package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(store *fakeStore) *Gate {
	coord := NewCoordinator(store, NewReadModel(time.Minute), nil)
	return NewGate(coord)
}

func lostDirective() Directive {
	return Directive{Kind: DirectiveConfirm, DealID: 3, DealName: "9 Pine Rd", Target: "lost", IsLost: true}
}

func wonDirective() Directive {
	return Directive{Kind: DirectiveConfirm, DealID: 1, DealName: "12 Oak St", Target: "closed"}
}

func TestGate_OpenRejectsNonTerminal(t *testing.T) {
	g := newTestGate(&fakeStore{})
	err := g.Open(Directive{Kind: DirectiveCommit, Target: "offer"})
	assert.ErrorIs(t, err, ErrNotTerminal)
	assert.False(t, g.IsOpen())
}

func TestGate_ConfirmWhileClosed(t *testing.T) {
	g := newTestGate(&fakeStore{})
	err := g.Confirm(context.Background(), "")
	assert.ErrorIs(t, err, ErrGateClosed)
}

func TestGate_ShortLostReasonRejectedLocally(t *testing.T) {
	store := &fakeStore{}
	g := newTestGate(store)
	require.NoError(t, g.Open(lostDirective()))

	// 9 runes after trimming: one short of the minimum.
	err := g.Confirm(context.Background(), "  too cheap  ")
	assert.ErrorIs(t, err, ErrReasonTooShort)
	assert.True(t, g.IsOpen(), "gate stays open so the user can fix the reason")
	assert.Empty(t, store.stageCalls, "nothing reaches the store")
}

func TestGate_ValidLostReasonCommitsOnce(t *testing.T) {
	store := &fakeStore{board: testBoard()}
	g := newTestGate(store)
	require.NoError(t, g.Open(lostDirective()))

	err := g.Confirm(context.Background(), "client chose another agent")
	require.NoError(t, err)
	assert.False(t, g.IsOpen())
	require.Len(t, store.stageCalls, 1)
	assert.Equal(t, "lost", store.stageCalls[0].NewStage)
	assert.Equal(t, "client chose another agent", store.stageCalls[0].LostReason)
	assert.Equal(t, int64(3), store.stageDeals[0])
}

func TestGate_WonNeedsNoReason(t *testing.T) {
	store := &fakeStore{board: testBoard()}
	g := newTestGate(store)
	require.NoError(t, g.Open(wonDirective()))

	err := g.Confirm(context.Background(), "ignored text")
	require.NoError(t, err)
	require.Len(t, store.stageCalls, 1)
	assert.Empty(t, store.stageCalls[0].LostReason, "reason is dropped for a won move")
}

func TestGate_CancelDiscardsPending(t *testing.T) {
	store := &fakeStore{}
	g := newTestGate(store)
	require.NoError(t, g.Open(lostDirective()))

	d, ok := g.Pending()
	require.True(t, ok)
	assert.Equal(t, "lost", d.Target)

	g.Cancel()
	assert.False(t, g.IsOpen())
	_, ok = g.Pending()
	assert.False(t, ok)
	assert.Empty(t, store.stageCalls)

	// A cancelled gate cannot be confirmed after the fact.
	assert.ErrorIs(t, g.Confirm(context.Background(), "client chose another agent"), ErrGateClosed)
}
