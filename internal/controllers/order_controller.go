package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/services"
)

// OrderController handles the customer-facing order endpoints
type OrderController interface {
	// PlaceOrder checks the caller's cart out
	PlaceOrder(ctx *gin.Context)
	// GetOrder returns one of the caller's orders with its items
	GetOrder(ctx *gin.Context)
	// GetStatus returns an order's delivery status
	GetStatus(ctx *gin.Context)
	// History lists the caller's orders, newest first
	History(ctx *gin.Context)
	// SubmitFeedback records a delivery rating
	SubmitFeedback(ctx *gin.Context)
}

type orderController struct {
	orders services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(orders services.OrderService) OrderController {
	return &orderController{orders: orders}
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Check out the cart atomically: stock is verified for every line before anything is written, prices are snapshotted and the cart is cleared.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body services.PlaceOrderRequest true "Checkout payload"
// @Success 201 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (c *orderController) PlaceOrder(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in services.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	order, err := c.orders.PlaceOrder(customerID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order_id": order.OrderID})
}

// GetOrder godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (c *orderController) GetOrder(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	order, err := c.orders.GetOrder(customerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// GetStatus godoc
// @Summary Get an order's status
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/status [get]
func (c *orderController) GetStatus(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	status, err := c.orders.GetStatus(customerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order_id": ctx.Param("id"), "status": string(status)})
}

// History godoc
// @Summary List order history
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/history [get]
func (c *orderController) History(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	orders, err := c.orders.History(customerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

type feedbackRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// SubmitFeedback godoc
// @Summary Rate a delivery
// @Description Record a 1-5 rating for the order's delivery agent. Resubmitting replaces the previous rating.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param feedback body feedbackRequest true "Rating and comment"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/feedback [post]
func (c *orderController) SubmitFeedback(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in feedbackRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.orders.SubmitFeedback(customerID, ctx.Param("id"), in.Rating, in.Feedback); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Feedback recorded"})
}
