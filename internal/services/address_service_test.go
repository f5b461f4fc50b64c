package services

import (
	"testing"

	"github.com/hifieats/hifi-eats-api/internal/apperrors"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFirstIsPreferred(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "U001")
	svc := NewAddressService(db)

	first, err := svc.Create("U001", AddressInput{Street: "12 Baker Street", City: "Pune", State: "MH", Pincode: "411001"})
	require.NoError(t, err)
	assert.True(t, first.IsPreferred)

	second, err := svc.Create("U001", AddressInput{Street: "9 Hill Road", City: "Mumbai", State: "MH", Pincode: "400050"})
	require.NoError(t, err)
	assert.False(t, second.IsPreferred)
}

func TestSetPreferredIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "U001")
	svc := NewAddressService(db)

	_, err := svc.Create("U001", AddressInput{Street: "12 Baker Street", City: "Pune", State: "MH", Pincode: "411001"})
	require.NoError(t, err)
	second, err := svc.Create("U001", AddressInput{Street: "9 Hill Road", City: "Mumbai", State: "MH", Pincode: "400050"})
	require.NoError(t, err)

	_, err = svc.SetPreferred("U001", second.AddressID)
	require.NoError(t, err)

	var rows []models.Address
	require.NoError(t, db.Where("customer_id = ?", "U001").Order("address_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].IsPreferred)
	assert.True(t, rows[1].IsPreferred)
}

func TestAddressOwnershipScoped(t *testing.T) {
	db := setupTestDB(t)
	seedCustomer(t, db, "U001")
	seedCustomer(t, db, "U002")
	svc := NewAddressService(db)

	address, err := svc.Create("U001", AddressInput{Street: "12 Baker Street", City: "Pune", State: "MH", Pincode: "411001"})
	require.NoError(t, err)

	_, err = svc.SetPreferred("U002", address.AddressID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	err = svc.Delete("U002", address.AddressID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	require.NoError(t, svc.Delete("U001", address.AddressID))
}
