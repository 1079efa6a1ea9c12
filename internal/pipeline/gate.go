package pipeline

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// MinLostReasonLen is the minimum trimmed length of a lost reason.
const MinLostReasonLen = 10

var (
	ErrGateClosed     = errors.New("confirmation gate is not open")
	ErrNotTerminal    = errors.New("directive does not require confirmation")
	ErrReasonTooShort = errors.New("lost reason must be at least 10 characters")
)

// Gate is the terminal-confirmation state machine: Closed until the engine
// emits a DirectiveConfirm, Open while the modal collects the (optional)
// reason, Closed again on cancel or on a valid confirm. Nothing is patched
// or sent while the gate is open, so cancel needs no rollback.
//
// The gate belongs to the UI event loop and is not safe for concurrent use.
type Gate struct {
	coord   *Coordinator
	open    bool
	pending Directive
}

func NewGate(coord *Coordinator) *Gate {
	return &Gate{coord: coord}
}

// Open arms the gate with a confirmation directive.
func (g *Gate) Open(d Directive) error {
	if d.Kind != DirectiveConfirm {
		return ErrNotTerminal
	}
	g.open = true
	g.pending = d
	return nil
}

func (g *Gate) IsOpen() bool {
	return g.open
}

// Pending returns the armed directive while the gate is open.
func (g *Gate) Pending() (Directive, bool) {
	return g.pending, g.open
}

// Cancel discards the pending move. The control that initiated the gesture
// simply reverts visually; the read model was never touched.
func (g *Gate) Cancel() {
	g.open = false
	g.pending = Directive{}
}

// Confirm validates the reason and hands the move to the coordinator. A lost
// move with a trimmed reason shorter than MinLostReasonLen is rejected here,
// with no network call, and the gate stays open. The gate closes as soon as
// the hand-off is accepted; the commit outcome is the returned error.
func (g *Gate) Confirm(ctx context.Context, reason string) error {
	if !g.open {
		return ErrGateClosed
	}
	d := g.pending
	reason = strings.TrimSpace(reason)
	if d.IsLost {
		if utf8.RuneCountInString(reason) < MinLostReasonLen {
			return ErrReasonTooShort
		}
	} else {
		reason = ""
	}

	g.open = false
	g.pending = Directive{}
	return g.coord.ChangeStage(ctx, d.DealID, d.Target, reason)
}
