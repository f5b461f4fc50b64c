package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/services"
)

// AgentController handles the delivery agent's own endpoints
type AgentController interface {
	// Dashboard returns the agent's order buckets and earnings
	Dashboard(ctx *gin.Context)
	// Earnings returns today's and the most recent ledger rows
	Earnings(ctx *gin.Context)
	// AcceptOrder takes an assigned order
	AcceptOrder(ctx *gin.Context)
	// DeclineOrder returns an assigned order to the pool
	DeclineOrder(ctx *gin.Context)
	// UpdateStatus advances an order along the delivery flow
	UpdateStatus(ctx *gin.Context)
	// UpdateProfile patches the agent's own profile
	UpdateProfile(ctx *gin.Context)
}

type agentController struct {
	agents services.AgentService
	orders services.OrderService
}

// NewAgentController creates a new instance of AgentController
func NewAgentController(agents services.AgentService, orders services.OrderService) AgentController {
	return &agentController{agents: agents, orders: orders}
}

// Dashboard godoc
// @Summary Agent dashboard
// @Description Orders grouped by stage plus today's delivery count and earnings
// @Tags agent
// @Produce json
// @Success 200 {object} services.AgentDashboard
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/agent/dashboard [get]
func (c *agentController) Dashboard(ctx *gin.Context) {
	agentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	dashboard, err := c.agents.Dashboard(agentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dashboard)
}

// Earnings godoc
// @Summary Agent earnings
// @Tags agent
// @Produce json
// @Success 200 {object} services.AgentDashboard
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/agent/earnings [get]
func (c *agentController) Earnings(ctx *gin.Context) {
	agentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	dashboard, err := c.agents.Dashboard(agentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"earnings":        dashboard.TodayEarnings,
		"recent_earnings": dashboard.RecentEarnings,
	})
}

// AcceptOrder godoc
// @Summary Accept an order
// @Description Take a Preparing order assigned to this agent
// @Tags agent
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/agent/orders/{id}/accept [post]
func (c *agentController) AcceptOrder(ctx *gin.Context) {
	agentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.orders.AcceptOrder(agentID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order accepted"})
}

// DeclineOrder godoc
// @Summary Decline an order
// @Description Return a Preparing order to the unassigned pool
// @Tags agent
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/agent/orders/{id}/decline [post]
func (c *agentController) DeclineOrder(ctx *gin.Context) {
	agentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.orders.DeclineOrder(agentID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order declined"})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Update an order's status
// @Description Advance an assigned order one step along Accepted, Picked Up, Out for Delivery, Delivered. Reaching Delivered accrues earnings.
// @Tags agent
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body statusUpdateRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/agent/orders/{id}/status [post]
func (c *agentController) UpdateStatus(ctx *gin.Context) {
	agentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in statusUpdateRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	order, earnings, err := c.orders.UpdateStatus(agentID, ctx.Param("id"), models.OrderStatus(in.Status))
	if err != nil {
		respondError(ctx, err)
		return
	}
	resp := gin.H{
		"order_id": order.OrderID,
		"status":   string(order.DeliveryStatus),
	}
	if earnings != nil {
		resp["earnings"] = earnings
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateProfile godoc
// @Summary Update the agent profile
// @Tags agent
// @Accept json
// @Produce json
// @Param profile body services.AgentProfilePatch true "Fields to change"
// @Success 200 {object} models.DeliveryAgent
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/agent/profile [post]
func (c *agentController) UpdateProfile(ctx *gin.Context) {
	agentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var patch services.AgentProfilePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	agent, err := c.agents.UpdateProfile(agentID, patch)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, agent)
}
