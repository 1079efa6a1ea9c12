package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
)

// Generator renders pipeline reports (an interface keeps it easy to stub).
type Generator interface {
	PipelineReport(w io.Writer, data ReportData) error
}

type ReportData struct {
	DealTypeName string
	GeneratedAt  time.Time
	Stages       []models.PipelineStageGroup
	Summary      models.PipelineSummary
}

type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

func (g *ReportGenerator) PipelineReport(w io.Writer, data ReportData) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Pipeline report — %s", data.DealTypeName), true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "PIPELINE REPORT", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s  —  %s", data.DealTypeName, data.GeneratedAt.Format("02.01.2006 15:04"))
	doc.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	hr(doc)
	doc.Ln(3)

	// stage table
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(70, 8, "Stage", "1", 0, "L", false, 0, "")
	doc.CellFormat(30, 8, "Deals", "1", 0, "R", false, 0, "")
	doc.CellFormat(50, 8, "Total value", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	for _, stage := range data.Stages {
		doc.CellFormat(70, 7, stage.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%d", stage.Count), "1", 0, "R", false, 0, "")
		doc.CellFormat(50, 7, "$"+pipeline.FormatDollar(stage.TotalValue), "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)
	hr(doc)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	kvLine(doc, "Total deals", fmt.Sprintf("%d", data.Summary.TotalDeals))
	kvLine(doc, "Open", fmt.Sprintf("%d", data.Summary.OpenDeals))
	kvLine(doc, "Won", fmt.Sprintf("%d ($%s)", data.Summary.WonDeals, pipeline.FormatDollar(data.Summary.WonValue)))
	kvLine(doc, "Lost", fmt.Sprintf("%d", data.Summary.LostDeals))
	kvLine(doc, "Total value", "$"+pipeline.FormatDollar(data.Summary.TotalValue))

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pipeline report: %w", err)
	}
	return nil
}

func hr(doc *gofpdf.Fpdf) {
	x, y := doc.GetXY()
	doc.SetDrawColor(180, 180, 180)
	doc.Line(20, y, 190, y)
	doc.SetXY(x, y+2)
}

func kvLine(doc *gofpdf.Fpdf, key, value string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(50, 7, key, "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}
