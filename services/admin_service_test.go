package services

import (
	"testing"

	"invest-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPendingTransaction(t *testing.T, svc *AdminService, userID uint, txType models.TransactionType, amount float64) models.Transaction {
	t.Helper()
	transaction := models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Status: models.TransactionStatusPending,
	}
	require.NoError(t, svc.DB.Create(&transaction).Error)
	return transaction
}

func TestApproveDepositCreditsWalletOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db)

	user := createUser(t, db, 0, 0, nil)
	pending := createPendingTransaction(t, svc, user.ID, models.TransactionTypeDeposit, 250)

	moderated, err := svc.Moderate(pending.ID, true, "verified UTR")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, moderated.Status)
	assert.Equal(t, "verified UTR", moderated.AdminNote)
	require.NotNil(t, moderated.UpdatedAt)

	updated := getUser(t, db, user.ID)
	assert.Equal(t, 250.0, updated.DepositWallet)

	// A second approve must fail and must not credit again.
	_, err = svc.Moderate(pending.ID, true, "")
	require.ErrorIs(t, err, ErrInvalidState)

	updated = getUser(t, db, user.ID)
	assert.Equal(t, 250.0, updated.DepositWallet)
}

func TestRejectDepositLeavesWalletAlone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db)

	user := createUser(t, db, 0, 0, nil)
	pending := createPendingTransaction(t, svc, user.ID, models.TransactionTypeDeposit, 250)

	moderated, err := svc.Moderate(pending.ID, false, "")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRejected, moderated.Status)
	assert.NotEmpty(t, moderated.AdminNote) // default note is filled in

	updated := getUser(t, db, user.ID)
	assert.Zero(t, updated.DepositWallet)
}

func TestApproveWithdrawalBumpsTotalWithdrawals(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	txSvc := NewTransactionService(db)

	user := createUser(t, db, 0, 100, nil)

	pending, err := txSvc.RequestWithdrawal(user.ID, 40, "bank", "acct-1")
	require.NoError(t, err)

	_, err = adminSvc.Moderate(pending.ID, true, "")
	require.NoError(t, err)

	updated := getUser(t, db, user.ID)
	assert.Equal(t, 60.0, updated.WithdrawalWallet) // debited at request time
	assert.Equal(t, 40.0, updated.TotalWithdrawals)
}

func TestRejectWithdrawalRefundsHold(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	txSvc := NewTransactionService(db)

	user := createUser(t, db, 0, 100, nil)

	pending, err := txSvc.RequestWithdrawal(user.ID, 40, "bank", "acct-1")
	require.NoError(t, err)

	held := getUser(t, db, user.ID)
	require.Equal(t, 60.0, held.WithdrawalWallet)

	moderated, err := adminSvc.Moderate(pending.ID, false, "account details invalid")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRejected, moderated.Status)

	updated := getUser(t, db, user.ID)
	assert.Equal(t, 100.0, updated.WithdrawalWallet) // net zero against the hold
	assert.Zero(t, updated.TotalWithdrawals)
}

func TestModerateUnknownTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db)

	_, err := svc.Moderate(424242, true, "")
	require.ErrorIs(t, err, ErrNotFound)
}
