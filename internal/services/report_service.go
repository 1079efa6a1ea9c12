package services

import (
	"dealdesk/internal/models"
)

type ReportDealRepo interface {
	StatusCounts() (map[models.DealStatus]models.StatusAgg, error)
	ListByStatus(status models.DealStatus, limit, offset int) ([]models.Deal, error)
}

type ReportService struct {
	deals ReportDealRepo
}

func NewReportService(deals ReportDealRepo) *ReportService {
	return &ReportService{deals: deals}
}

// GetSummary is the dashboard aggregate over all deals.
func (s *ReportService) GetSummary() (*models.PipelineSummary, error) {
	counts, err := s.deals.StatusCounts()
	if err != nil {
		return nil, err
	}
	summary := &models.PipelineSummary{}
	for status, agg := range counts {
		summary.TotalDeals += agg.Count
		summary.TotalValue += agg.Value
		switch status {
		case models.StatusClosedWon:
			summary.WonDeals += agg.Count
			summary.WonValue += agg.Value
		case models.StatusClosedLost:
			summary.LostDeals += agg.Count
		case models.StatusActive, models.StatusPending:
			summary.OpenDeals += agg.Count
		}
	}
	return summary, nil
}

func (s *ReportService) WonDeals(limit, offset int) ([]models.Deal, error) {
	return s.deals.ListByStatus(models.StatusClosedWon, limit, offset)
}

func (s *ReportService) LostDeals(limit, offset int) ([]models.Deal, error) {
	return s.deals.ListByStatus(models.StatusClosedLost, limit, offset)
}
