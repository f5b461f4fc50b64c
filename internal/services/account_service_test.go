package services

import (
	"testing"
	"time"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/auth"
	"github.com/hifieats/hifi-eats-api/internal/mailer"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAccountService(db *gorm.DB) AccountService {
	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	return NewAccountService(db, tokens, mailer.NewNoopMailer())
}

func TestSignupCustomerCreatesPreferredAddress(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(db)

	customer, err := svc.SignupCustomer(CustomerSignup{
		Username: "asha",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Password: "hunter22",
		Street:   "12 Baker Street",
		City:     "Pune",
		State:    "MH",
		Pincode:  "411001",
	})
	require.NoError(t, err)
	assert.Equal(t, "U001", customer.CustomerID)
	assert.NotEqual(t, "hunter22", customer.Password)

	var address models.Address
	require.NoError(t, db.First(&address, "customer_id = ?", "U001").Error)
	assert.Equal(t, "ADD001", address.AddressID)
	assert.True(t, address.IsPreferred)
}

func TestSignupCustomerRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(db)

	in := CustomerSignup{Username: "asha", Email: "asha@example.com", Phone: "9876543210", Password: "pw"}
	_, err := svc.SignupCustomer(in)
	require.NoError(t, err)

	_, err = svc.SignupCustomer(in)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ReasonDuplicateAccount, appErr.Reason)
}

func TestLoginByEmailAndPhone(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(db)
	_, err := svc.SignupCustomer(CustomerSignup{
		Username: "asha", Email: "asha@example.com", Phone: "9876543210", Password: "hunter22",
	})
	require.NoError(t, err)

	session, err := svc.Login(models.RoleCustomer, "asha@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "U001", session.UserID)
	assert.Equal(t, models.RoleCustomer, session.Role)
	assert.NotEmpty(t, session.Token)

	session, err = svc.Login(models.RoleCustomer, "9876543210", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "U001", session.UserID)

	_, err = svc.Login(models.RoleCustomer, "asha@example.com", "wrong")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ReasonInvalidCredentials, appErr.Reason)
}

func TestAgentLoginRequiresApproval(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(db)
	_, err := svc.SignupAgent(AgentSignup{
		Username: "ravi", Email: "ravi@example.com", Phone: "8876543210",
		Password: "pw123456", DeliveryArea: "Downtown",
	})
	require.NoError(t, err)

	_, err = svc.Login(models.RoleAgent, "ravi@example.com", "pw123456")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ReasonAccountNotApproved, appErr.Reason)

	require.NoError(t, db.Model(&models.DeliveryAgent{}).
		Where("delivery_agent_id = ?", "DA001").
		Update("is_approved", true).Error)

	session, err := svc.Login(models.RoleAgent, "ravi@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "DA001", session.UserID)
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(db)
	_, err := svc.SignupCustomer(CustomerSignup{
		Username: "asha", Email: "asha@example.com", Phone: "9876543210", Password: "oldpass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword("asha@example.com", "http://localhost/reset"))

	var reset models.PasswordReset
	require.NoError(t, db.First(&reset, "customer_id = ?", "U001").Error)

	require.NoError(t, svc.ResetPassword(reset.Token, "newpass"))

	_, err = svc.Login(models.RoleCustomer, "asha@example.com", "oldpass")
	require.Error(t, err)
	_, err = svc.Login(models.RoleCustomer, "asha@example.com", "newpass")
	require.NoError(t, err)

	// Token is single use.
	err = svc.ResetPassword(reset.Token, "another")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(db)
	require.NoError(t, svc.ForgotPassword("nobody@example.com", "http://localhost/reset"))

	var count int64
	require.NoError(t, db.Model(&models.PasswordReset{}).Count(&count).Error)
	assert.Zero(t, count)
}
