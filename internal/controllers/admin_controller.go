package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/services"
)

// AdminController handles order administration, agent administration and the
// analytics endpoints
type AdminController interface {
	// PendingOrders lists unassigned orders
	PendingOrders(ctx *gin.Context)
	// AllOrders pages through every order
	AllOrders(ctx *gin.Context)
	// AssignOrder hands a pending order to an agent
	AssignOrder(ctx *gin.Context)
	// RejectOrder cancels a pending order
	RejectOrder(ctx *gin.Context)
	// RefundOrder refunds a delivered order
	RefundOrder(ctx *gin.Context)
	// Summary returns dashboard counts
	Summary(ctx *gin.Context)
	// StatusChart returns per-status order counts
	StatusChart(ctx *gin.Context)
	// Insights returns delivery performance aggregates
	Insights(ctx *gin.Context)

	// ListAgents lists every delivery agent
	ListAgents(ctx *gin.Context)
	// ApproveAgent approves a pending agent signup
	ApproveAgent(ctx *gin.Context)
	// RejectAgent deletes a pending agent signup
	RejectAgent(ctx *gin.Context)
	// ActivateAgent re-enables an agent for assignment
	ActivateAgent(ctx *gin.Context)
	// DeactivateAgent blocks an agent from assignment and login
	DeactivateAgent(ctx *gin.Context)

	// ListCustomers lists every customer
	ListCustomers(ctx *gin.Context)
}

type adminController struct {
	orders   services.OrderService
	agents   services.AgentService
	accounts services.AccountService
	insights services.InsightsService
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(orders services.OrderService, agents services.AgentService, accounts services.AccountService, insights services.InsightsService) AdminController {
	return &adminController{orders: orders, agents: agents, accounts: accounts, insights: insights}
}

// PendingOrders godoc
// @Summary List pending orders
// @Description Unassigned orders with their items, oldest first
// @Tags admin
// @Produce json
// @Success 200 {array} models.Order
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/orders/pending [get]
func (c *adminController) PendingOrders(ctx *gin.Context) {
	orders, err := c.orders.PendingOrders()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// AllOrders godoc
// @Summary List all orders
// @Description Paginated order listing. sort_by accepts order_id, status, created_at, total_price.
// @Tags admin
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Param sort_by query string false "Sort column"
// @Param sort_dir query string false "asc or desc"
// @Success 200 {object} services.OrderPage
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/orders [get]
func (c *adminController) AllOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(ctx.DefaultQuery("per_page", "10"))
	result, err := c.orders.AllOrders(page, perPage, ctx.Query("sort_by"), ctx.Query("sort_dir"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

type assignOrderRequest struct {
	OrderID string `json:"order_id"`
	AgentID string `json:"agent_id"`
}

// AssignOrder godoc
// @Summary Assign an order to an agent
// @Description Move a Pending order to Preparing for an active agent
// @Tags admin
// @Accept json
// @Produce json
// @Param assignment body assignOrderRequest true "Order and agent"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/orders/assign [post]
func (c *adminController) AssignOrder(ctx *gin.Context) {
	var in assignOrderRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.orders.AssignAgent(in.OrderID, in.AgentID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order assigned"})
}

type orderIDRequest struct {
	OrderID string `json:"order_id"`
}

// RejectOrder godoc
// @Summary Reject a pending order
// @Tags admin
// @Accept json
// @Produce json
// @Param request body orderIDRequest true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/orders/reject [post]
func (c *adminController) RejectOrder(ctx *gin.Context) {
	var in orderIDRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.orders.RejectOrder(in.OrderID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order rejected"})
}

// RefundOrder godoc
// @Summary Refund a delivered order
// @Tags admin
// @Accept json
// @Produce json
// @Param request body orderIDRequest true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/orders/refund [post]
func (c *adminController) RefundOrder(ctx *gin.Context) {
	var in orderIDRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.orders.RefundOrder(in.OrderID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order refunded"})
}

// Summary godoc
// @Summary Order summary counts
// @Tags admin
// @Produce json
// @Success 200 {object} services.OrderSummary
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/summary [get]
func (c *adminController) Summary(ctx *gin.Context) {
	summary, err := c.orders.Summary()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// StatusChart godoc
// @Summary Order counts per status
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/order-status-chart [get]
func (c *adminController) StatusChart(ctx *gin.Context) {
	chart, err := c.orders.StatusChart()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chart)
}

// Insights godoc
// @Summary Delivery performance aggregates
// @Description Average delivery time, on-time percentage, revenue per delivery, refund rate and per-agent figures
// @Tags admin
// @Produce json
// @Success 200 {object} services.Insights
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/insights [get]
func (c *adminController) Insights(ctx *gin.Context) {
	snapshot, err := c.insights.Snapshot()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// ListAgents godoc
// @Summary List delivery agents
// @Tags admin
// @Produce json
// @Success 200 {array} models.DeliveryAgent
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/agents [get]
func (c *adminController) ListAgents(ctx *gin.Context) {
	agents, err := c.agents.List()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, agents)
}

func (c *adminController) agentAction(ctx *gin.Context, action func(string) (*models.DeliveryAgent, error)) {
	agent, err := action(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, agent)
}

// ApproveAgent godoc
// @Summary Approve an agent signup
// @Tags admin
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} models.DeliveryAgent
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/agents/{id}/approve [post]
func (c *adminController) ApproveAgent(ctx *gin.Context) {
	c.agentAction(ctx, c.agents.Approve)
}

// RejectAgent godoc
// @Summary Reject an agent signup
// @Description Delete the agent record entirely
// @Tags admin
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} models.DeliveryAgent
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/agents/{id}/reject [post]
func (c *adminController) RejectAgent(ctx *gin.Context) {
	c.agentAction(ctx, c.agents.Reject)
}

// ActivateAgent godoc
// @Summary Activate an agent
// @Tags admin
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} models.DeliveryAgent
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/agents/{id}/activate [post]
func (c *adminController) ActivateAgent(ctx *gin.Context) {
	c.agentAction(ctx, c.agents.Activate)
}

// DeactivateAgent godoc
// @Summary Deactivate an agent
// @Tags admin
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} models.DeliveryAgent
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/agents/{id}/deactivate [post]
func (c *adminController) DeactivateAgent(ctx *gin.Context) {
	c.agentAction(ctx, c.agents.Deactivate)
}

// ListCustomers godoc
// @Summary List customers
// @Tags admin
// @Produce json
// @Success 200 {array} models.Customer
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/customers [get]
func (c *adminController) ListCustomers(ctx *gin.Context) {
	customers, err := c.accounts.ListCustomers()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, customers)
}
