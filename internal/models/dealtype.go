package models

import (
	"time"
)

type StageType string

const (
	StageNormal StageType = "normal"
	StageWon    StageType = "won"
	StageLost   StageType = "lost"
)

// PipelineStage is one step of a deal type's ordered progression.
// Type may be empty on legacy deal types; classification falls back to the
// stage code in that case (see internal/pipeline).
type PipelineStage struct {
	Code  string    `json:"code"`
	Name  string    `json:"name"`
	Order int       `json:"order"`
	Type  StageType `json:"type,omitempty"`
}

// FieldSpec describes one deal_data field for a deal type.
type FieldSpec struct {
	Type     string   `json:"type"` // "string" | "number" | "bool" | "date"
	Required bool     `json:"required,omitempty"`
	Enum     []string `json:"enum,omitempty"`
}

type DealType struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Stages      []PipelineStage      `json:"stages"`
	FieldSchema map[string]FieldSpec `json:"field_schema,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FirstStage returns the code of the lowest-order stage; new deals start there.
func (dt *DealType) FirstStage() string {
	if len(dt.Stages) == 0 {
		return ""
	}
	first := dt.Stages[0]
	for _, s := range dt.Stages[1:] {
		if s.Order < first.Order {
			first = s
		}
	}
	return first.Code
}
