package services

import (
	"fmt"
	"testing"

	"invest-platform/models"

	"github.com/glebarez/sqlite"
	"github.com/gosimple/slug"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// :memory: lives on a single connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.UserInvestment{},
		&models.Transaction{},
	))
	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, deposit, withdrawal float64, referredBy *uint) models.User {
	t.Helper()
	userSeq++

	user := models.User{
		Username:         fmt.Sprintf("user%d", userSeq),
		Email:            fmt.Sprintf("user%d@example.com", userSeq),
		Mobile:           "5550000000",
		Password:         "x",
		DepositWallet:    deposit,
		WithdrawalWallet: withdrawal,
		ReferralCode:     fmt.Sprintf("code%04d", userSeq),
		ReferredBy:       referredBy,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPlan(t *testing.T, db *gorm.DB, name string, price, daily float64, validity int) models.Plan {
	t.Helper()

	plan := models.Plan{
		Name:         name,
		Slug:         slug.Make(name),
		Price:        price,
		DailyEarning: daily,
		Validity:     validity,
		Features:     []string{},
	}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func getUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user
}

func userTransactions(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType) []models.Transaction {
	t.Helper()
	var transactions []models.Transaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", userID, txType).Find(&transactions).Error)
	return transactions
}
