package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/services"
)

// AddressController handles the customer's saved addresses
type AddressController interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	SetPreferred(ctx *gin.Context)
}

type addressController struct {
	addresses services.AddressService
}

// NewAddressController creates a new instance of AddressController
func NewAddressController(addresses services.AddressService) AddressController {
	return &addressController{addresses: addresses}
}

// List godoc
// @Summary List addresses
// @Tags addresses
// @Produce json
// @Success 200 {array} models.Address
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/addresses [get]
func (c *addressController) List(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	addresses, err := c.addresses.List(customerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, addresses)
}

// Create godoc
// @Summary Add an address
// @Description The customer's first address automatically becomes preferred
// @Tags addresses
// @Accept json
// @Produce json
// @Param address body services.AddressInput true "Address"
// @Success 201 {object} models.Address
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/addresses [post]
func (c *addressController) Create(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in services.AddressInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	address, err := c.addresses.Create(customerID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, address)
}

// Update godoc
// @Summary Update an address
// @Tags addresses
// @Accept json
// @Produce json
// @Param id path string true "Address ID"
// @Param address body services.AddressInput true "Fields to change"
// @Success 200 {object} models.Address
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/addresses/{id} [put]
func (c *addressController) Update(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var in services.AddressInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	address, err := c.addresses.Update(customerID, ctx.Param("id"), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, address)
}

// Delete godoc
// @Summary Delete an address
// @Tags addresses
// @Produce json
// @Param id path string true "Address ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/addresses/{id} [delete]
func (c *addressController) Delete(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.addresses.Delete(customerID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// SetPreferred godoc
// @Summary Mark an address preferred
// @Description Exactly one address per customer is preferred at a time
// @Tags addresses
// @Produce json
// @Param id path string true "Address ID"
// @Success 200 {object} models.Address
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/addresses/{id}/preferred [post]
func (c *addressController) SetPreferred(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	address, err := c.addresses.SetPreferred(customerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, address)
}
