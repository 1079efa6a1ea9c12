package pipeline

import (
	"errors"

	"dealdesk/internal/models"
)

var ErrUnknownStage = errors.New("unknown target stage")

type DirectiveKind int

const (
	// DirectiveNone: the gesture resolves to nothing (move onto the
	// current stage).
	DirectiveNone DirectiveKind = iota
	// DirectiveCommit: a normal stage, commit straight away.
	DirectiveCommit
	// DirectiveConfirm: a terminal stage, the confirmation gate must open
	// before anything mutates.
	DirectiveConfirm
)

// Directive is the engine's verdict on one requested move. For
// DirectiveConfirm it carries what the gate needs to render and to hand off
// on confirm.
type Directive struct {
	Kind     DirectiveKind
	DealID   int64
	DealName string
	Target   string
	IsLost   bool
}

// Decide classifies a (deal, target stage) move against the deal type's
// stage list. Drag-and-drop, the stage dropdown, and swipes all funnel
// through here with the same tuple.
func Decide(deal models.Deal, stages []models.PipelineStage, target string) (Directive, error) {
	stage, ok := StageByCode(stages, target)
	if !ok {
		return Directive{}, ErrUnknownStage
	}
	if deal.CurrentStage == target {
		return Directive{Kind: DirectiveNone}, nil
	}

	d := Directive{
		DealID:   deal.ID,
		DealName: deal.Title,
		Target:   target,
	}
	switch Classify(stage) {
	case ClassWon:
		d.Kind = DirectiveConfirm
	case ClassLost:
		d.Kind = DirectiveConfirm
		d.IsLost = true
	default:
		d.Kind = DirectiveCommit
	}
	return d, nil
}
