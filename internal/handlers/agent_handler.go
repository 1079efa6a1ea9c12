package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/services"
)

type AgentHandler struct {
	Service *services.AgentService
}

func NewAgentHandler(service *services.AgentService) *AgentHandler {
	return &AgentHandler{Service: service}
}

// @Summary      List agents
// @Tags         Agents
// @Produce      json
// @Success      200  {array}  models.Agent
// @Router       /agents [get]
func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.Service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, agents)
}

// @Summary      Get an agent
// @Tags         Agents
// @Produce      json
// @Param        id   path      int  true  "Agent ID"
// @Success      200  {object}  models.Agent
// @Failure      404  {object}  map[string]string
// @Router       /agents/{id} [get]
func (h *AgentHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	agent, err := h.Service.GetByID(id)
	if err != nil || agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return
	}
	c.JSON(http.StatusOK, agent)
}
