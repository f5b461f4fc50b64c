package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/services"
)

// AuthController handles signup, login and password recovery
type AuthController interface {
	// SignupCustomer registers a new customer account
	SignupCustomer(ctx *gin.Context)
	// SignupAgent registers a new delivery agent pending approval
	SignupAgent(ctx *gin.Context)
	// Login authenticates a user of any role
	Login(ctx *gin.Context)
	// ForgotPassword mails a password reset token
	ForgotPassword(ctx *gin.Context)
	// ResetPassword consumes a reset token
	ResetPassword(ctx *gin.Context)
}

type authController struct {
	accounts     services.AccountService
	resetBaseURL string
}

// NewAuthController creates a new instance of AuthController
func NewAuthController(accounts services.AccountService, resetBaseURL string) AuthController {
	return &authController{accounts: accounts, resetBaseURL: resetBaseURL}
}

// SignupCustomer godoc
// @Summary Register a customer
// @Description Create a customer account with an initial preferred address
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body services.CustomerSignup true "Signup payload"
// @Success 201 {object} models.Customer
// @Failure 400 {object} models.APIError
// @Router /api/v1/auth/signup [post]
func (c *authController) SignupCustomer(ctx *gin.Context) {
	var in services.CustomerSignup
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	customer, err := c.accounts.SignupCustomer(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, customer)
}

// SignupAgent godoc
// @Summary Register a delivery agent
// @Description Create a delivery agent account awaiting admin approval
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body services.AgentSignup true "Signup payload"
// @Success 201 {object} models.DeliveryAgent
// @Failure 400 {object} models.APIError
// @Router /api/v1/auth/agent-signup [post]
func (c *authController) SignupAgent(ctx *gin.Context) {
	var in services.AgentSignup
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	agent, err := c.accounts.SignupAgent(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, agent)
}

type loginRequest struct {
	Role       string `json:"role"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login godoc
// @Summary Log in
// @Description Authenticate by email or phone for the given role and receive a Bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} services.Session
// @Failure 400 {object} models.APIError
// @Router /api/v1/auth/login [post]
func (c *authController) Login(ctx *gin.Context) {
	var in loginRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	session, err := c.accounts.Login(in.Role, in.Identifier, in.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Mail a single-use reset token to the customer. Always returns 200 for valid input so accounts cannot be enumerated.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "Customer email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Router /api/v1/auth/forgot-password [post]
func (c *authController) ForgotPassword(ctx *gin.Context) {
	var in forgotPasswordRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.accounts.ForgotPassword(in.Email, c.resetBaseURL); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link has been sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword godoc
// @Summary Reset a password
// @Description Set a new password using a mailed reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body resetPasswordRequest true "Token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Router /api/v1/auth/reset-password [post]
func (c *authController) ResetPassword(ctx *gin.Context) {
	var in resetPasswordRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := c.accounts.ResetPassword(in.Token, in.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
