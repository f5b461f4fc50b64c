package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/services"
)

// MenuController handles HTTP requests for the catalog
type MenuController interface {
	// ListMenu lists in-stock items for customers
	ListMenu(ctx *gin.Context)
	// ListAllItems lists every item including scheduled metadata, for admins
	ListAllItems(ctx *gin.Context)
	// GetItem retrieves one menu item
	GetItem(ctx *gin.Context)
	// CreateItem adds a menu item, immediately or on a schedule
	CreateItem(ctx *gin.Context)
	// UpdateItem patches a menu item, immediately or on a schedule
	UpdateItem(ctx *gin.Context)
	// DeleteItem removes a menu item by name
	DeleteItem(ctx *gin.Context)
	// ListCategories lists categories and subcategories
	ListCategories(ctx *gin.Context)
	// Recommendations suggests items based on the customer's order history
	Recommendations(ctx *gin.Context)
}

type menuController struct {
	menu            services.MenuService
	recommendations services.RecommendationService
}

// NewMenuController creates a new instance of MenuController
func NewMenuController(menu services.MenuService, recommendations services.RecommendationService) MenuController {
	return &menuController{menu: menu, recommendations: recommendations}
}

// ListMenu godoc
// @Summary List the customer menu
// @Description Get all in-stock menu items
// @Tags menu
// @Produce json
// @Success 200 {array} models.MenuItem
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/menu [get]
func (c *menuController) ListMenu(ctx *gin.Context) {
	items, err := c.menu.ListAvailable()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// ListAllItems godoc
// @Summary List all menu items
// @Description Get every item including out-of-stock and scheduled metadata
// @Tags menu
// @Produce json
// @Success 200 {array} models.MenuItem
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/menu [get]
func (c *menuController) ListAllItems(ctx *gin.Context) {
	items, err := c.menu.ListAll()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get a menu item
// @Tags menu
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} models.MenuItem
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/menu/{id} [get]
func (c *menuController) GetItem(ctx *gin.Context) {
	item, err := c.menu.GetByID(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// CreateItem godoc
// @Summary Create a menu item
// @Description Create an item. With scheduled_update_time set, the item is created as a hidden placeholder that goes live when the scheduler runs.
// @Tags menu
// @Accept json
// @Produce json
// @Param item body services.MenuItemInput true "Menu item"
// @Success 201 {object} models.MenuItem
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/menu [post]
func (c *menuController) CreateItem(ctx *gin.Context) {
	var in services.MenuItemInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	item, err := c.menu.Create(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update a menu item
// @Description Patch an item. With scheduled_update_time set, the patch is stashed and applied by the scheduler instead.
// @Tags menu
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param patch body services.MenuItemPatch true "Fields to change"
// @Success 200 {object} models.MenuItem
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/menu/{id} [put]
func (c *menuController) UpdateItem(ctx *gin.Context) {
	var patch services.MenuItemPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	item, err := c.menu.Update(ctx.Param("id"), patch)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

type deleteItemRequest struct {
	Name string `json:"name"`
}

// DeleteItem godoc
// @Summary Delete a menu item
// @Description Delete an item by its unique name
// @Tags menu
// @Accept json
// @Produce json
// @Param request body deleteItemRequest true "Item name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/admin/menu [delete]
func (c *menuController) DeleteItem(ctx *gin.Context) {
	var in deleteItemRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.menu.DeleteByName(in.Name); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// ListCategories godoc
// @Summary List categories
// @Tags menu
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/menu/categories [get]
func (c *menuController) ListCategories(ctx *gin.Context) {
	categories, subcategories, err := c.menu.Categories()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"categories":    categories,
		"subcategories": subcategories,
	})
}

// Recommendations godoc
// @Summary Get menu recommendations
// @Description Suggest up to five in-stock items from subcategories the customer has ordered from
// @Tags menu
// @Produce json
// @Success 200 {object} services.Recommendations
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recommendations [get]
func (c *menuController) Recommendations(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	recs, err := c.recommendations.ForCustomer(customerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recs)
}
