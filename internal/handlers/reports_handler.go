package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/pdf"
	"dealdesk/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
	Deals   *services.DealService
	Types   *services.DealTypeService
	PDFGen  pdf.Generator
}

func NewReportHandler(service *services.ReportService, deals *services.DealService, types *services.DealTypeService, pdfGen pdf.Generator) *ReportHandler {
	return &ReportHandler{Service: service, Deals: deals, Types: types, PDFGen: pdfGen}
}

// @Summary      Dashboard summary
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  models.PipelineSummary
// @Router       /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	data, err := h.Service.GetSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// @Summary      Won deals
// @Tags         Reports
// @Produce      json
// @Success      200  {array}  models.Deal
// @Router       /reports/deals/won [get]
func (h *ReportHandler) WonDeals(c *gin.Context) {
	limit, offset := pageParams(c)
	deals, err := h.Service.WonDeals(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deals)
}

// @Summary      Lost deals
// @Tags         Reports
// @Produce      json
// @Success      200  {array}  models.Deal
// @Router       /reports/deals/lost [get]
func (h *ReportHandler) LostDeals(c *gin.Context) {
	limit, offset := pageParams(c)
	deals, err := h.Service.LostDeals(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deals)
}

// @Summary      Pipeline report as PDF
// @Tags         Reports
// @Produce      application/pdf
// @Param        deal_type_id  query  int  true  "Deal type"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /reports/pipeline.pdf [get]
func (h *ReportHandler) PipelinePDF(c *gin.Context) {
	dealTypeID, err := strconv.ParseInt(c.Query("deal_type_id"), 10, 64)
	if err != nil || dealTypeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deal_type_id is required"})
		return
	}
	dt, err := h.Types.GetByID(dealTypeID)
	if err != nil || dt == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deal type not found"})
		return
	}
	board, err := h.Deals.Pipeline(dealTypeID, 0, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="pipeline.pdf"`)
	err = h.PDFGen.PipelineReport(c.Writer, pdf.ReportData{
		DealTypeName: dt.Name,
		GeneratedAt:  time.Now(),
		Stages:       board.Stages,
		Summary:      board.Summary,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
