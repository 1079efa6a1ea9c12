package models

// PipelineStageGroup is the read-model projection of one stage: the deals
// currently sitting in it plus precomputed count and value totals.
type PipelineStageGroup struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
	Deals      []Deal  `json:"deals"`
}

type PipelineSummary struct {
	TotalDeals int     `json:"total_deals"`
	TotalValue float64 `json:"total_value"`
	OpenDeals  int     `json:"open_deals"`
	WonDeals   int     `json:"won_deals"`
	LostDeals  int     `json:"lost_deals"`
	WonValue   float64 `json:"won_value"`
}

// PipelineBoard is the response of GET /deals/pipeline.
type PipelineBoard struct {
	Stages  []PipelineStageGroup `json:"stages"`
	Summary PipelineSummary      `json:"summary"`
}

// StatusAgg is one row of the per-status aggregation feeding the dashboard.
type StatusAgg struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}
