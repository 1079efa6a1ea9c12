package pipeline

import (
	"dealdesk/internal/models"
)

// StageClass is the business classification of a pipeline stage.
type StageClass int

const (
	ClassNormal StageClass = iota
	ClassWon
	ClassLost
)

func (c StageClass) String() string {
	switch c {
	case ClassWon:
		return "won"
	case ClassLost:
		return "lost"
	default:
		return "normal"
	}
}

// Terminal reports whether reaching a stage of this class closes the deal.
func (c StageClass) Terminal() bool {
	return c == ClassWon || c == ClassLost
}

// Classify resolves a stage to normal/won/lost. Deal types created before the
// explicit type field exist with Type empty; for those the legacy rule applies:
// codes "closed" and "funded" are won, code "lost" is lost.
func Classify(stage models.PipelineStage) StageClass {
	switch stage.Type {
	case models.StageWon:
		return ClassWon
	case models.StageLost:
		return ClassLost
	case models.StageNormal:
		return ClassNormal
	}
	switch stage.Code {
	case "closed", "funded":
		return ClassWon
	case "lost":
		return ClassLost
	}
	return ClassNormal
}

// StageByCode looks a stage up in a deal type's stage list.
func StageByCode(stages []models.PipelineStage, code string) (models.PipelineStage, bool) {
	for _, s := range stages {
		if s.Code == code {
			return s, true
		}
	}
	return models.PipelineStage{}, false
}

// SwipeDirection maps a swipe gesture onto the ordered stage list.
type SwipeDirection int

const (
	SwipeNext SwipeDirection = iota
	SwipePrev
)

// SwipeTarget resolves a swipe from the given stage to the adjacent stage code
// in order. ok is false at either end of the list or when current is unknown.
func SwipeTarget(stages []models.PipelineStage, current string, dir SwipeDirection) (string, bool) {
	ordered := make([]models.PipelineStage, len(stages))
	copy(ordered, stages)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Order < ordered[j-1].Order; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	for i, s := range ordered {
		if s.Code != current {
			continue
		}
		switch dir {
		case SwipeNext:
			if i+1 < len(ordered) {
				return ordered[i+1].Code, true
			}
		case SwipePrev:
			if i > 0 {
				return ordered[i-1].Code, true
			}
		}
		return "", false
	}
	return "", false
}
