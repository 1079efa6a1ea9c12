package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/models"
	"dealdesk/internal/services"
)

type DealTypeHandler struct {
	Service *services.DealTypeService
}

func NewDealTypeHandler(service *services.DealTypeService) *DealTypeHandler {
	return &DealTypeHandler{Service: service}
}

// @Summary      Create a deal type
// @Tags         DealTypes
// @Accept       json
// @Produce      json
// @Param        deal_type  body      models.DealType  true  "Deal type with ordered stages"
// @Success      201        {object}  models.DealType
// @Failure      400        {object}  map[string]string
// @Router       /deal-types [post]
func (h *DealTypeHandler) Create(c *gin.Context) {
	var dt models.DealType
	if err := c.ShouldBindJSON(&dt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Create(&dt); err != nil {
		switch err {
		case services.ErrNoStages, services.ErrDuplicateStage, services.ErrMultipleWonStages:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, dt)
}

// @Summary      List deal types
// @Tags         DealTypes
// @Produce      json
// @Success      200  {array}  models.DealType
// @Router       /deal-types [get]
func (h *DealTypeHandler) List(c *gin.Context) {
	types, err := h.Service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, types)
}

// @Summary      Get a deal type
// @Tags         DealTypes
// @Produce      json
// @Param        id   path      int  true  "Deal type ID"
// @Success      200  {object}  models.DealType
// @Failure      404  {object}  map[string]string
// @Router       /deal-types/{id} [get]
func (h *DealTypeHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	dt, err := h.Service.GetByID(id)
	if err != nil || dt == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal type not found"})
		return
	}
	c.JSON(http.StatusOK, dt)
}

// @Summary      Update a deal type
// @Tags         DealTypes
// @Accept       json
// @Produce      json
// @Param        id         path      int              true  "Deal type ID"
// @Param        deal_type  body      models.DealType  true  "Deal type"
// @Success      200        {object}  models.DealType
// @Failure      400        {object}  map[string]string
// @Router       /deal-types/{id} [put]
func (h *DealTypeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var dt models.DealType
	if err := c.ShouldBindJSON(&dt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dt.ID = id
	if err := h.Service.Update(&dt); err != nil {
		switch err {
		case services.ErrNoStages, services.ErrDuplicateStage, services.ErrMultipleWonStages:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, dt)
}
