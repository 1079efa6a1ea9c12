package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
	"dealdesk/internal/services"
)

type DealHandler struct {
	Service *services.DealService
}

func NewDealHandler(service *services.DealService) *DealHandler {
	return &DealHandler{Service: service}
}

// @Summary      Create a deal
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Param        deal  body      models.Deal  true  "Deal"
// @Success      201   {object}  models.Deal
// @Failure      400   {object}  map[string]string
// @Router       /deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agentID := getAgentID(c)
	if deal.AssignedTo == 0 {
		deal.AssignedTo = agentID
	}
	if err := h.Service.Create(&deal, agentID); err != nil {
		status := http.StatusInternalServerError
		if err == services.ErrDealTypeNotFound {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, deal)
}

// @Summary      Get a deal
// @Tags         Deals
// @Produce      json
// @Param        id   path      int  true  "Deal ID"
// @Success      200  {object}  models.Deal
// @Failure      404  {object}  map[string]string
// @Router       /deals/{id} [get]
func (h *DealHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	deal, err := h.Service.GetByID(id)
	if err != nil || deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	c.JSON(http.StatusOK, deal)
}

// @Summary      Update a deal
// @Description  Partial update; deal_data (including the mortgage triple) replaces the stored map
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Param        id     path      int              true  "Deal ID"
// @Param        patch  body      models.DealPatch true  "Fields to change"
// @Success      200    {object}  models.Deal
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /deals/{id} [put]
func (h *DealHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var patch models.DealPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Service.Update(id, &patch, getAgentID(c))
	if err != nil {
		switch err {
		case services.ErrDealNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.ErrDealTypeNotFound:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete a deal
// @Tags         Deals
// @Param        id  path  int  true  "Deal ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /deals/{id} [delete]
func (h *DealHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	deal, err := h.Service.GetByID(id)
	if err != nil || deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	if err := h.Service.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      List deals
// @Tags         Deals
// @Produce      json
// @Param        page  query     int  false  "Page"
// @Param        size  query     int  false  "Page size"
// @Success      200   {array}   models.Deal
// @Router       /deals [get]
func (h *DealHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	deals, err := h.Service.ListPaginated(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve deals"})
		return
	}
	c.JSON(http.StatusOK, deals)
}

// @Summary      Move a deal to another stage
// @Description  Applies the terminal rules: a won stage closes the deal, a lost stage needs a reason of at least 10 characters. A repeated request_id is a no-op.
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "Deal ID"
// @Param        body  body      models.ChangeStageRequest  true  "Target stage"
// @Success      200   {object}  models.Deal
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /deals/{id}/stage [post]
func (h *DealHandler) ChangeStage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req models.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Service.ChangeStage(id, getAgentID(c), req)
	if err != nil {
		switch err {
		case services.ErrDealNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.ErrDealClosed:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case services.ErrLostReasonRequired, pipeline.ErrUnknownStage, services.ErrDealTypeNotFound:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Pipeline board
// @Description  Deals of one deal type grouped by stage, with count and total_value per group
// @Tags         Deals
// @Produce      json
// @Param        deal_type_id  query     int  true   "Deal type"
// @Param        assigned_to   query     int  false  "Filter by agent"
// @Param        limit         query     int  false  "Max deals"
// @Success      200  {object}  models.PipelineBoard
// @Failure      400  {object}  map[string]string
// @Router       /deals/pipeline [get]
func (h *DealHandler) Pipeline(c *gin.Context) {
	dealTypeID, err := strconv.ParseInt(c.Query("deal_type_id"), 10, 64)
	if err != nil || dealTypeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deal_type_id is required"})
		return
	}
	assignedTo, _ := strconv.ParseInt(c.DefaultQuery("assigned_to", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	board, err := h.Service.Pipeline(dealTypeID, assignedTo, limit)
	if err != nil {
		if err == services.ErrDealTypeNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, board)
}

// @Summary      Deal activity history
// @Tags         Deals
// @Produce      json
// @Param        id  path  int  true  "Deal ID"
// @Success      200  {array}  models.Activity
// @Router       /deals/{id}/activities [get]
func (h *DealHandler) Activities(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, offset := pageParams(c)
	activities, err := h.Service.Activities(id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, activities)
}
