package services

import (
	"testing"
	"time"

	"invest-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createInvestment(t *testing.T, db *gorm.DB, userID, planID uint, daily float64, active bool, lastClaim *time.Time) models.UserInvestment {
	t.Helper()
	now := time.Now()
	inv := models.UserInvestment{
		UserID:        userID,
		PlanID:        planID,
		PurchaseDate:  now,
		ExpiryDate:    now.AddDate(0, 0, 30),
		Amount:        100,
		DailyEarning:  daily,
		IsActive:      active,
		LastClaimDate: lastClaim,
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

func TestClaimCreditsEachActiveInvestment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEarningsService(db)

	user := createUser(t, db, 0, 0, nil)
	planA := createPlan(t, db, "Starter Plan", 10, 0.5, 30)
	planB := createPlan(t, db, "Growth Plan", 50, 2.0, 45)
	createInvestment(t, db, user.ID, planA.ID, 0.5, true, nil)
	createInvestment(t, db, user.ID, planB.ID, 2.0, true, nil)

	claimed, err := svc.ClaimDaily(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, claimed)

	updated := getUser(t, db, user.ID)
	assert.Equal(t, 2.5, updated.WithdrawalWallet)
	assert.Equal(t, 2.5, updated.TotalEarnings)

	earnings := userTransactions(t, db, user.ID, models.TransactionTypeEarning)
	assert.Len(t, earnings, 2)
}

func TestClaimTwiceSameDayIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEarningsService(db)

	user := createUser(t, db, 0, 0, nil)
	plan := createPlan(t, db, "Growth Plan", 50, 2.0, 45)
	createInvestment(t, db, user.ID, plan.ID, 2.0, true, nil)

	first, err := svc.ClaimDaily(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, first)

	second, err := svc.ClaimDaily(user.ID)
	require.NoError(t, err)
	assert.Zero(t, second)

	updated := getUser(t, db, user.ID)
	assert.Equal(t, 2.0, updated.WithdrawalWallet)

	earnings := userTransactions(t, db, user.ID, models.TransactionTypeEarning)
	assert.Len(t, earnings, 1)
}

func TestClaimEligibleAgainNextDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEarningsService(db)

	user := createUser(t, db, 0, 0, nil)
	plan := createPlan(t, db, "Growth Plan", 50, 2.0, 45)
	yesterday := time.Now().AddDate(0, 0, -1)
	createInvestment(t, db, user.ID, plan.ID, 2.0, true, &yesterday)

	claimed, err := svc.ClaimDaily(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, claimed)
}

func TestClaimSkipsInactiveInvestments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEarningsService(db)

	user := createUser(t, db, 0, 0, nil)
	plan := createPlan(t, db, "Growth Plan", 50, 2.0, 45)
	createInvestment(t, db, user.ID, plan.ID, 2.0, false, nil)

	claimed, err := svc.ClaimDaily(user.ID)
	require.NoError(t, err)
	assert.Zero(t, claimed)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestClaimUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEarningsService(db)

	_, err := svc.ClaimDaily(424242)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClaimIsIndependentPerInvestment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEarningsService(db)

	user := createUser(t, db, 0, 0, nil)
	plan := createPlan(t, db, "Growth Plan", 50, 2.0, 45)

	// One investment already claimed today, one still eligible.
	now := time.Now()
	createInvestment(t, db, user.ID, plan.ID, 2.0, true, &now)
	createInvestment(t, db, user.ID, plan.ID, 0.5, true, nil)

	claimed, err := svc.ClaimDaily(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, claimed)

	earnings := userTransactions(t, db, user.ID, models.TransactionTypeEarning)
	require.Len(t, earnings, 1)
	assert.Equal(t, 0.5, earnings[0].Amount)
}
