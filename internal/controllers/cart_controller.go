package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/services"
)

// CartController handles the customer's basket
type CartController interface {
	// GetCart returns the caller's cart lines
	GetCart(ctx *gin.Context)
	// ReplaceCart overwrites the caller's cart
	ReplaceCart(ctx *gin.Context)
	// Count returns the total item quantity in the caller's cart
	Count(ctx *gin.Context)
}

type cartController struct {
	cart services.CartService
}

// NewCartController creates a new instance of CartController
func NewCartController(cart services.CartService) CartController {
	return &cartController{cart: cart}
}

// GetCart godoc
// @Summary Get the cart
// @Tags cart
// @Produce json
// @Success 200 {array} services.CartLine
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart [get]
func (c *cartController) GetCart(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	lines, err := c.cart.GetCart(customerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, lines)
}

type replaceCartRequest struct {
	Items []services.CartItemInput `json:"items"`
}

// ReplaceCart godoc
// @Summary Replace the cart
// @Description Overwrite the whole cart with the supplied lines. Lines with quantity zero or less are dropped.
// @Tags cart
// @Accept json
// @Produce json
// @Param cart body replaceCartRequest true "Cart lines"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart [post]
func (c *cartController) ReplaceCart(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in replaceCartRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.cart.ReplaceCart(customerID, in.Items); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// Count godoc
// @Summary Count cart items
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/cart/count [get]
func (c *cartController) Count(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	count, err := c.cart.Count(customerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"count": count})
}
