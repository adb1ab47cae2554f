package services

import (
	"encoding/json"
	"testing"

	"invest-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalHoldsFundsImmediately(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTransactionService(db)

	user := createUser(t, db, 0, 100, nil)

	transaction, err := svc.RequestWithdrawal(user.ID, 40, "bank", "acct-1")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeWithdrawal, transaction.Type)
	assert.Equal(t, models.TransactionStatusPending, transaction.Status)
	assert.Equal(t, 40.0, transaction.Amount)

	var details map[string]string
	require.NoError(t, json.Unmarshal([]byte(transaction.Details), &details))
	assert.Equal(t, "bank", details["payment_method"])
	assert.Equal(t, "acct-1", details["account_details"])

	updated := getUser(t, db, user.ID)
	assert.Equal(t, 60.0, updated.WithdrawalWallet)
	assert.Zero(t, updated.TotalWithdrawals) // only approval bumps the total
}

func TestWithdrawalInsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTransactionService(db)

	user := createUser(t, db, 0, 25, nil)

	_, err := svc.RequestWithdrawal(user.ID, 40, "bank", "acct-1")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	updated := getUser(t, db, user.ID)
	assert.Equal(t, 25.0, updated.WithdrawalWallet)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithdrawalUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTransactionService(db)

	_, err := svc.RequestWithdrawal(424242, 40, "bank", "acct-1")
	require.ErrorIs(t, err, ErrNotFound)
}
